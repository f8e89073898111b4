package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cryptodca/portfolio-api/internal/models"
)

// SnapshotRepository persiste los snapshots diarios del valor del portafolio
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// UpsertDailySnapshot guarda una observación del valor del portafolio. Hay
// a lo sumo un snapshot por usuario y por día: las observaciones sucesivas
// del mismo día actualizan el valor y pliegan la banda max/min.
func (r *SnapshotRepository) UpsertDailySnapshot(userID string, snapshot models.InvestmentSnapshot) error {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextDay := dayStart.AddDate(0, 0, 1)

	var existingID string
	var maxValue, minValue float64
	err := r.db.QueryRow(`
		SELECT id, max_value, min_value
		FROM investment_snapshots
		WHERE user_id = $1 AND date >= $2 AND date < $3
		LIMIT 1`,
		userID, dayStart, nextDay,
	).Scan(&existingID, &maxValue, &minValue)

	switch {
	case err == nil:
		if snapshot.TotalValue > maxValue {
			maxValue = snapshot.TotalValue
		}
		if snapshot.TotalValue < minValue {
			minValue = snapshot.TotalValue
		}

		_, err = r.db.Exec(`
			UPDATE investment_snapshots
			SET total_value = $1, total_invested = $2, profit = $3,
			    profit_percentage = $4, max_value = $5, min_value = $6
			WHERE id = $7`,
			snapshot.TotalValue,
			snapshot.TotalInvested,
			snapshot.Profit,
			snapshot.ProfitPercentage,
			maxValue,
			minValue,
			existingID,
		)
		return err

	case errors.Is(err, sql.ErrNoRows):
		// Primer snapshot del día: la banda arranca en el valor observado
		_, err = r.db.Exec(`
			INSERT INTO investment_snapshots
				(id, user_id, date, total_value, total_invested, profit, profit_percentage, max_value, min_value)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			fmt.Sprintf("snapshot_%s", uuid.NewString()),
			userID,
			dayStart,
			snapshot.TotalValue,
			snapshot.TotalInvested,
			snapshot.Profit,
			snapshot.ProfitPercentage,
			snapshot.TotalValue,
			snapshot.TotalValue,
		)
		return err

	default:
		return err
	}
}

// GetSnapshotsSince devuelve los snapshots desde una fecha en orden cronológico
func (r *SnapshotRepository) GetSnapshotsSince(userID string, since time.Time) ([]models.InvestmentSnapshot, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, date, total_value, total_invested, profit, profit_percentage, max_value, min_value
		FROM investment_snapshots
		WHERE user_id = $1 AND date >= $2
		ORDER BY date ASC`,
		userID, since,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.InvestmentSnapshot
	for rows.Next() {
		var snapshot models.InvestmentSnapshot
		err := rows.Scan(
			&snapshot.ID,
			&snapshot.UserID,
			&snapshot.Date,
			&snapshot.TotalValue,
			&snapshot.TotalInvested,
			&snapshot.Profit,
			&snapshot.ProfitPercentage,
			&snapshot.MaxValue,
			&snapshot.MinValue,
		)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}
