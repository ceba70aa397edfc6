package model

import "errors"

var (
	// ErrTaskNotFound indica que a tarefa não existe na coleção
	ErrTaskNotFound = errors.New("tarefa não encontrada")

	// ErrItemNotFound indica que o item de inventário não existe
	ErrItemNotFound = errors.New("item de inventário não encontrado")

	// ErrShoppingItemNotFound indica que o item da lista de compras não existe
	ErrShoppingItemNotFound = errors.New("item da lista de compras não encontrado")

	// ErrInsufficientQuantity indica consumo maior que o saldo disponível;
	// o estado permanece inalterado
	ErrInsufficientQuantity = errors.New("quantidade insuficiente no inventário")

	// ErrNegativeQuantity indica uma reposição que deixaria o saldo negativo
	ErrNegativeQuantity = errors.New("quantidade não pode ficar negativa")

	// ErrInvalidTime indica horário fora do formato HH:MM
	ErrInvalidTime = errors.New("horário inválido, esperado HH:MM")
)
