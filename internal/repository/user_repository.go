package repository

import (
	"database/sql"
	"errors"

	"github.com/cryptodca/portfolio-api/internal/models"
)

// UserRepository maneja la persistencia de los usuarios
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser registra un nuevo usuario. El password ya debe venir hasheado
func (r *UserRepository) CreateUser(user *models.User) error {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, user.Email).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	_, err = r.db.Exec(`
		INSERT INTO users (id, email, password, name, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		user.ID, user.Email, user.Password, user.Name,
	)
	return err
}

// GetUserByEmail busca un usuario por su email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		SELECT id, email, password, name, created_at
		FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserById busca un usuario por su id
func (r *UserRepository) GetUserById(id string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(`
		SELECT id, email, password, name, created_at
		FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAllUsers devuelve todos los usuarios registrados
func (r *UserRepository) GetAllUsers() ([]models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, email, password, name, created_at
		FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.ID, &user.Email, &user.Password, &user.Name, &user.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// UpdateUser actualiza el nombre y el email de un usuario
func (r *UserRepository) UpdateUser(user *models.User) error {
	result, err := r.db.Exec(`
		UPDATE users SET email = $1, name = $2 WHERE id = $3`,
		user.Email, user.Name, user.ID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrUserNotFound)
}

// UpdatePassword reemplaza el password de un usuario. Recibe el hash, no el texto plano
func (r *UserRepository) UpdatePassword(userID, hashedPassword string) error {
	result, err := r.db.Exec(`
		UPDATE users SET password = $1 WHERE id = $2`,
		hashedPassword, userID,
	)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrUserNotFound)
}

// DeleteUser elimina un usuario y, en cascada, todos sus datos
func (r *UserRepository) DeleteUser(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrUserNotFound)
}
