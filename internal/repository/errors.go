package repository

import "errors"

// Errores centinela de la capa de repositorios. Los handlers los traducen
// a códigos HTTP; nunca se propagan errores crudos de la base al cliente.
var (
	ErrTransactionNotFound = errors.New("transacción no encontrada")
	ErrBolsaNotFound       = errors.New("bolsa no encontrada")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrEmailTaken          = errors.New("el email ya está registrado")
)
