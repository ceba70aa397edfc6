package model

import "time"

// NotifWindow é a janela diária em que notificações são avaliadas.
// Horários em HH:MM com zero à esquerda; a comparação lexicográfica
// equivale à numérica apenas sob esse padding.
type NotifWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CleaningFrequencies define a cadência (em dias) das limpezas profundas
type CleaningFrequencies struct {
	Clothes int `json:"clothes"`
	Sheets  int `json:"sheets"`
}

// DeepCleanDates guarda a última execução de cada limpeza profunda.
// Ponteiros nulos significam "nunca executada".
type DeepCleanDates struct {
	Clothes *time.Time `json:"clothes"`
	Sheets  *time.Time `json:"sheets"`
}

// Settings é o registro único de configuração do lar
type Settings struct {
	UserName             string              `json:"userName"`
	AutoRollover         bool                `json:"autoRollover"`
	Initialized          bool                `json:"initialized"`
	TutorialComplete     bool                `json:"tutorialComplete"`
	NotifWindow          NotifWindow         `json:"notifWindow"`
	NotificationsEnabled bool                `json:"notificationsEnabled"`
	DinnerOffset         int                 `json:"dinnerOffset"`
	WorkStartTime        string              `json:"workStartTime"`
	CleaningFrequencies  CleaningFrequencies `json:"cleaningFrequencies"`
	LastDeepClean        DeepCleanDates      `json:"lastDeepClean"`
	MarketFrequency      int                 `json:"marketFrequency"`
	LastMarketDate       *time.Time          `json:"lastMarketDate"`
}

// DefaultSettings retorna o registro padrão usado no primeiro uso
// ou quando o blob persistido está ausente/corrompido
func DefaultSettings() Settings {
	return Settings{
		UserName:             "User",
		AutoRollover:         true,
		Initialized:          false,
		TutorialComplete:     false,
		NotifWindow:          NotifWindow{Start: "18:00", End: "22:00"},
		NotificationsEnabled: false,
		DinnerOffset:         2,
		WorkStartTime:        "09:00",
		CleaningFrequencies:  CleaningFrequencies{Clothes: 3, Sheets: 7},
		MarketFrequency:      7,
	}
}
