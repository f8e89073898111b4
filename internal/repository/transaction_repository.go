package repository

import (
	"database/sql"
	"errors"

	"github.com/cryptodca/portfolio-api/internal/models"
)

// TransactionRepository maneja la persistencia de transacciones de compra/venta
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, crypto_name, ticker, amount, purchase_price, total, date, type, note, image_url, added_manually, created_at`

func scanTransaction(row interface{ Scan(...any) error }) (models.Transaction, error) {
	var tx models.Transaction
	var note, imageURL sql.NullString
	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.CryptoName,
		&tx.Ticker,
		&tx.Amount,
		&tx.PurchasePrice,
		&tx.Total,
		&tx.Date,
		&tx.Type,
		&note,
		&imageURL,
		&tx.AddedManually,
		&tx.CreatedAt,
	)
	tx.Note = note.String
	tx.ImageURL = imageURL.String
	return tx, err
}

func (r *TransactionRepository) CreateTransaction(tx models.Transaction) error {
	query := `
		INSERT INTO crypto_transactions (id, user_id, crypto_name, ticker, amount, purchase_price, total, date, type, note, image_url, added_manually)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(query,
		tx.ID,
		tx.UserID,
		tx.CryptoName,
		tx.Ticker,
		tx.Amount,
		tx.PurchasePrice,
		tx.Total,
		tx.Date,
		tx.Type,
		tx.Note,
		tx.ImageURL,
		tx.AddedManually,
	)
	return err
}

func (r *TransactionRepository) GetUserTransactions(userID string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM crypto_transactions
		WHERE user_id = $1
		ORDER BY date DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) GetTransactionsByTicker(userID, ticker string) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM crypto_transactions
		WHERE user_id = $1 AND ticker = $2
		ORDER BY date ASC`

	rows, err := r.db.Query(query, userID, ticker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) GetRecentTransactions(userID string, limit int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM crypto_transactions
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) GetTransaction(transactionID string) (*models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM crypto_transactions
		WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRow(query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) UpdateTransaction(tx models.Transaction) error {
	query := `
		UPDATE crypto_transactions
		SET crypto_name = $1, ticker = $2, amount = $3, purchase_price = $4,
		    total = $5, date = $6, type = $7, note = $8, image_url = $9
		WHERE id = $10 AND user_id = $11`

	result, err := r.db.Exec(query,
		tx.CryptoName,
		tx.Ticker,
		tx.Amount,
		tx.PurchasePrice,
		tx.Total,
		tx.Date,
		tx.Type,
		tx.Note,
		tx.ImageURL,
		tx.ID,
		tx.UserID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrTransactionNotFound)
}

func (r *TransactionRepository) DeleteTransaction(userID, transactionID string) error {
	result, err := r.db.Exec(
		`DELETE FROM crypto_transactions WHERE id = $1 AND user_id = $2`,
		transactionID, userID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrTransactionNotFound)
}

// DeleteTransactionsByTicker elimina todas las transacciones de un ticker.
// Borrar un ticker sin transacciones no es un error.
func (r *TransactionRepository) DeleteTransactionsByTicker(userID, ticker string) error {
	_, err := r.db.Exec(
		`DELETE FROM crypto_transactions WHERE user_id = $1 AND ticker = $2`,
		userID, ticker,
	)
	return err
}

// checkAffected traduce "cero filas afectadas" al sentinel de no encontrado
func checkAffected(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound
	}
	return nil
}
