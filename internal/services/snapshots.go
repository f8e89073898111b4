package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cryptodca/portfolio-api/internal/models"
	"github.com/cryptodca/portfolio-api/internal/repository"
)

// SnapshotService captura periódicamente el valor del portafolio de cada
// usuario y arma el historial de inversiones que alimenta el gráfico.
// Reemplaza al dashboard en vivo para las vistas históricas: el valor del
// día se pliega en una banda max/min por usuario y por fecha.
type SnapshotService struct {
	users     *repository.UserRepository
	snapshots *repository.SnapshotRepository
	portfolio *PortfolioService
}

func NewSnapshotService(users *repository.UserRepository, snapshots *repository.SnapshotRepository, portfolio *PortfolioService) *SnapshotService {
	return &SnapshotService{
		users:     users,
		snapshots: snapshots,
		portfolio: portfolio,
	}
}

// CaptureAll toma un snapshot del portafolio de cada usuario. Es el cuerpo
// del job periódico; un usuario que falla no corta el recorrido.
func (s *SnapshotService) CaptureAll(ctx context.Context) error {
	users, err := s.users.GetAllUsers()
	if err != nil {
		return fmt.Errorf("error al obtener usuarios para snapshots: %w", err)
	}

	for _, user := range users {
		if err := s.Capture(ctx, user.ID); err != nil {
			slog.Error("error al capturar snapshot",
				slog.String("userID", user.ID), slog.String("err", err.Error()))
		}
	}

	slog.Info("captura de snapshots completada", slog.Int("usuarios", len(users)))
	return nil
}

// Capture toma un snapshot del portafolio de un usuario. Los portafolios
// vacíos no generan snapshot.
func (s *SnapshotService) Capture(ctx context.Context, userID string) error {
	balance, err := s.portfolio.GetCurrentBalance(ctx, userID)
	if err != nil {
		return err
	}
	if balance.TotalBalance <= 0 || balance.TotalInvested <= 0 {
		return nil
	}

	return s.snapshots.UpsertDailySnapshot(userID, models.InvestmentSnapshot{
		TotalValue:       balance.TotalBalance,
		TotalInvested:    balance.TotalInvested,
		Profit:           balance.TotalProfit,
		ProfitPercentage: balance.ProfitPercentage,
	})
}

// GetInvestmentHistory arma la serie temporal de snapshots desde una fecha,
// con las bandas max/min por día y la tendencia del período completo.
func (s *SnapshotService) GetInvestmentHistory(userID string, since time.Time) (models.InvestmentHistory, error) {
	snapshots, err := s.snapshots.GetSnapshotsSince(userID, since)
	if err != nil {
		return models.InvestmentHistory{}, fmt.Errorf("error al obtener el historial de inversiones: %w", err)
	}

	history := models.InvestmentHistory{
		StartDate: since,
		History:   make([]models.DailyValue, len(snapshots)),
	}

	for i, snapshot := range snapshots {
		history.History[i] = models.DailyValue{
			Date:             snapshot.Date.Format("2006-01-02"),
			TotalValue:       snapshot.TotalValue,
			MaxValue:         snapshot.MaxValue,
			MinValue:         snapshot.MinValue,
			ChangePercentage: snapshot.ProfitPercentage,
		}

		if i == 0 || snapshot.MaxValue > history.MaxValue {
			history.MaxValue = snapshot.MaxValue
		}
		if i == 0 || snapshot.MinValue < history.MinValue {
			history.MinValue = snapshot.MinValue
		}
	}

	// Tendencia: variación porcentual entre el primer y el último snapshot
	if len(snapshots) > 1 {
		first := snapshots[0].TotalValue
		last := snapshots[len(snapshots)-1].TotalValue
		if first > 0 {
			history.TrendPercentage = ((last - first) / first) * 100
		}
	}

	return history, nil
}
