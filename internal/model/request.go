package model

// AddTaskRequest representa o payload de criação de tarefa.
// Type e Priority são opcionais: quando ausentes, o designador preenche.
type AddTaskRequest struct {
	Title    string       `json:"title" binding:"required"`
	Type     TaskType     `json:"type" binding:"omitempty,oneof=hogar limpieza compras"`
	Priority TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate  string       `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

// RestockRequest representa uma reposição de inventário
type RestockRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// ConsumeRequest representa um consumo de inventário (padrão: 1 unidade)
type ConsumeRequest struct {
	Amount int `json:"amount" binding:"omitempty,min=1"`
}

// AddShoppingItemRequest representa um novo item da lista de compras
type AddShoppingItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Quantity      int    `json:"quantity" binding:"omitempty,min=1"`
	FrequencyDays int    `json:"frequencyDays" binding:"omitempty,min=1"`
}

// ScanItem é um item detectado pelo subsistema de escaneamento de faturas
type ScanItem struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// ScanRequest representa o resultado de um escaneamento de fatura
type ScanRequest struct {
	Items []ScanItem `json:"items" binding:"required,min=1,dive"`
}

// Response representa a resposta padrão da API
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse representa uma resposta de erro da API
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
