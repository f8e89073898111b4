package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cryptodca/portfolio-api/internal/models"
)

// BolsaRepository maneja la persistencia de las bolsas y sus activos
type BolsaRepository struct {
	db *sql.DB
}

func NewBolsaRepository(db *sql.DB) *BolsaRepository {
	return &BolsaRepository{db: db}
}

// CreateBolsa crea una nueva bolsa con sus activos y etiquetas iniciales
func (r *BolsaRepository) CreateBolsa(bolsa *models.Bolsa) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("error al iniciar la transacción: %w", err)
	}
	defer tx.Rollback()

	if bolsa.ID == "" {
		bolsa.ID = uuid.NewString()
	}
	now := time.Now()
	bolsa.CreatedAt = now
	bolsa.UpdatedAt = now

	_, err = tx.Exec(`
		INSERT INTO bolsas (id, user_id, name, description, goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		bolsa.ID, bolsa.UserID, bolsa.Name, bolsa.Description, bolsa.Goal,
		bolsa.CreatedAt, bolsa.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error al crear la bolsa: %w", err)
	}

	for i := range bolsa.Assets {
		asset := &bolsa.Assets[i]
		asset.ID = uuid.NewString()
		asset.BolsaID = bolsa.ID
		asset.CreatedAt = now
		asset.UpdatedAt = now
		if asset.Total == 0 {
			asset.Total = asset.Amount * asset.PurchasePrice
		}
		if err := insertAsset(tx, asset); err != nil {
			return err
		}
	}

	for _, tag := range bolsa.Tags {
		if err := insertTag(tx, bolsa.ID, tag); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertAsset(tx *sql.Tx, asset *models.AssetInBolsa) error {
	_, err := tx.Exec(`
		INSERT INTO assets_in_bolsa
			(id, bolsa_id, crypto_name, ticker, amount, purchase_price, total, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		asset.ID, asset.BolsaID, asset.CryptoName, asset.Ticker,
		asset.Amount, asset.PurchasePrice, asset.Total, asset.ImageURL,
		asset.CreatedAt, asset.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error al guardar el activo: %w", err)
	}
	return nil
}

func insertTag(tx *sql.Tx, bolsaID, tag string) error {
	_, err := tx.Exec(`
		INSERT INTO bolsa_tags (id, bolsa_id, tag)
		VALUES ($1, $2, $3)
		ON CONFLICT (bolsa_id, tag) DO NOTHING`,
		uuid.NewString(), bolsaID, tag,
	)
	if err != nil {
		return fmt.Errorf("error al guardar la etiqueta: %w", err)
	}
	return nil
}

// GetBolsaByID obtiene una bolsa con sus activos y etiquetas
func (r *BolsaRepository) GetBolsaByID(id string) (*models.Bolsa, error) {
	var bolsa models.Bolsa
	var description sql.NullString
	err := r.db.QueryRow(`
		SELECT id, user_id, name, description, goal, created_at, updated_at
		FROM bolsas WHERE id = $1`,
		id,
	).Scan(&bolsa.ID, &bolsa.UserID, &bolsa.Name, &description, &bolsa.Goal,
		&bolsa.CreatedAt, &bolsa.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBolsaNotFound
	}
	if err != nil {
		return nil, err
	}
	bolsa.Description = description.String

	if bolsa.Assets, err = r.getAssets(bolsa.ID); err != nil {
		return nil, err
	}
	if bolsa.Tags, err = r.getTags(bolsa.ID); err != nil {
		return nil, err
	}

	return &bolsa, nil
}

// GetBolsasByUserID obtiene todas las bolsas de un usuario
func (r *BolsaRepository) GetBolsasByUserID(userID string) ([]models.Bolsa, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, name, description, goal, created_at, updated_at
		FROM bolsas WHERE user_id = $1
		ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bolsas []models.Bolsa
	for rows.Next() {
		var bolsa models.Bolsa
		var description sql.NullString
		err := rows.Scan(&bolsa.ID, &bolsa.UserID, &bolsa.Name, &description,
			&bolsa.Goal, &bolsa.CreatedAt, &bolsa.UpdatedAt)
		if err != nil {
			return nil, err
		}
		bolsa.Description = description.String
		bolsas = append(bolsas, bolsa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bolsas {
		if bolsas[i].Assets, err = r.getAssets(bolsas[i].ID); err != nil {
			return nil, err
		}
		if bolsas[i].Tags, err = r.getTags(bolsas[i].ID); err != nil {
			return nil, err
		}
	}

	return bolsas, nil
}

// GetBolsasByTag obtiene las bolsas de un usuario que tienen una etiqueta
func (r *BolsaRepository) GetBolsasByTag(userID, tag string) ([]models.Bolsa, error) {
	rows, err := r.db.Query(`
		SELECT b.id, b.user_id, b.name, b.description, b.goal, b.created_at, b.updated_at
		FROM bolsas b
		JOIN bolsa_tags t ON t.bolsa_id = b.id
		WHERE b.user_id = $1 AND t.tag = $2
		ORDER BY b.created_at ASC`,
		userID, tag,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bolsas []models.Bolsa
	for rows.Next() {
		var bolsa models.Bolsa
		var description sql.NullString
		err := rows.Scan(&bolsa.ID, &bolsa.UserID, &bolsa.Name, &description,
			&bolsa.Goal, &bolsa.CreatedAt, &bolsa.UpdatedAt)
		if err != nil {
			return nil, err
		}
		bolsa.Description = description.String
		bolsas = append(bolsas, bolsa)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bolsas {
		if bolsas[i].Assets, err = r.getAssets(bolsas[i].ID); err != nil {
			return nil, err
		}
		if bolsas[i].Tags, err = r.getTags(bolsas[i].ID); err != nil {
			return nil, err
		}
	}

	return bolsas, nil
}

func (r *BolsaRepository) getAssets(bolsaID string) ([]models.AssetInBolsa, error) {
	rows, err := r.db.Query(`
		SELECT id, bolsa_id, crypto_name, ticker, amount, purchase_price, total, image_url, created_at, updated_at
		FROM assets_in_bolsa WHERE bolsa_id = $1
		ORDER BY created_at ASC`,
		bolsaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.AssetInBolsa
	for rows.Next() {
		var asset models.AssetInBolsa
		var imageURL sql.NullString
		err := rows.Scan(&asset.ID, &asset.BolsaID, &asset.CryptoName, &asset.Ticker,
			&asset.Amount, &asset.PurchasePrice, &asset.Total, &imageURL,
			&asset.CreatedAt, &asset.UpdatedAt)
		if err != nil {
			return nil, err
		}
		asset.ImageURL = imageURL.String
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

func (r *BolsaRepository) getTags(bolsaID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT tag FROM bolsa_tags WHERE bolsa_id = $1 ORDER BY tag ASC`,
		bolsaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

// UpdateBolsa actualiza el nombre, la descripción y el objetivo de una bolsa
func (r *BolsaRepository) UpdateBolsa(bolsa *models.Bolsa) error {
	result, err := r.db.Exec(`
		UPDATE bolsas
		SET name = $1, description = $2, goal = $3, updated_at = now()
		WHERE id = $4 AND user_id = $5`,
		bolsa.Name, bolsa.Description, bolsa.Goal, bolsa.ID, bolsa.UserID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrBolsaNotFound)
}

// DeleteBolsa elimina una bolsa y, en cascada, sus activos y etiquetas
func (r *BolsaRepository) DeleteBolsa(id, userID string) error {
	result, err := r.db.Exec(`DELETE FROM bolsas WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrBolsaNotFound)
}

// AddAssetToBolsa agrega un activo a una bolsa existente
func (r *BolsaRepository) AddAssetToBolsa(bolsaID string, asset *models.AssetInBolsa) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	asset.ID = uuid.NewString()
	asset.BolsaID = bolsaID
	asset.CreatedAt = now
	asset.UpdatedAt = now
	if asset.Total == 0 {
		asset.Total = asset.Amount * asset.PurchasePrice
	}

	if err := insertAsset(tx, asset); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE bolsas SET updated_at = now() WHERE id = $1`, bolsaID); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateAsset actualiza la cantidad y el precio de compra de un activo
func (r *BolsaRepository) UpdateAsset(asset *models.AssetInBolsa) error {
	result, err := r.db.Exec(`
		UPDATE assets_in_bolsa
		SET amount = $1, purchase_price = $2, total = $3, updated_at = now()
		WHERE id = $4 AND bolsa_id = $5`,
		asset.Amount, asset.PurchasePrice, asset.Amount*asset.PurchasePrice,
		asset.ID, asset.BolsaID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrBolsaNotFound)
}

// DeleteAsset elimina un activo de una bolsa
func (r *BolsaRepository) DeleteAsset(bolsaID, assetID string) error {
	result, err := r.db.Exec(`
		DELETE FROM assets_in_bolsa WHERE id = $1 AND bolsa_id = $2`,
		assetID, bolsaID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrBolsaNotFound)
}

// AddTagToBolsa agrega una etiqueta a una bolsa. Repetir una etiqueta no es un error
func (r *BolsaRepository) AddTagToBolsa(bolsaID, tag string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertTag(tx, bolsaID, tag); err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveTagFromBolsa elimina una etiqueta de una bolsa
func (r *BolsaRepository) RemoveTagFromBolsa(bolsaID, tag string) error {
	result, err := r.db.Exec(`
		DELETE FROM bolsa_tags WHERE bolsa_id = $1 AND tag = $2`,
		bolsaID, tag,
	)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrBolsaNotFound)
}
