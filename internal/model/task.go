package model

import "time"

// TaskType classifica a tarefa dentro do lar
type TaskType string

const (
	TypeHogar    TaskType = "hogar"
	TypeLimpieza TaskType = "limpieza"
	TypeCompras  TaskType = "compras"
)

// TaskPriority é a prioridade de uma tarefa
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Recurrence identifica tarefas sintetizadas pelo motor de inteligência diária.
// Tarefas criadas pelo usuário ficam com o campo vazio.
type Recurrence string

const (
	RecurrenceCook    Recurrence = "cook"
	RecurrenceClothes Recurrence = "clothes"
	RecurrenceSheets  Recurrence = "sheets"
	RecurrenceMarket  Recurrence = "market"
)

// DateLayout é o formato de data de calendário usado em dueDate (sem hora).
// Comparações lexicográficas entre datas só valem nesse formato.
const DateLayout = "2006-01-02"

// Task representa uma tarefa do lar
type Task struct {
	ID         int64        `json:"id"`
	Title      string       `json:"title"`
	Type       TaskType     `json:"type"`
	Priority   TaskPriority `json:"priority"`
	DueDate    string       `json:"dueDate"`
	Completed  bool         `json:"completed"`
	Recurrence Recurrence   `json:"recurrence,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// IsValidType verifica se o tipo informado é conhecido
func IsValidType(t TaskType) bool {
	switch t {
	case TypeHogar, TypeLimpieza, TypeCompras:
		return true
	}
	return false
}

// IsValidPriority verifica se a prioridade informada é conhecida
func IsValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
