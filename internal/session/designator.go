package session

import (
	"strings"

	"github.com/cleberrangel/horario-zen-api/internal/model"
)

// designationRule associa palavras-chave do título a um tipo e prioridade.
// A tabela é avaliada em ordem e a primeira regra que casar vence.
type designationRule struct {
	Keywords []string
	Type     model.TaskType
	Priority model.TaskPriority
}

var designationRules = []designationRule{
	{
		Keywords: []string{"limpia", "lavar", "barrer", "trapear"},
		Type:     model.TypeLimpieza,
		Priority: model.PriorityMedium,
	},
	{
		Keywords: []string{"comprar", "mercado", "super"},
		Type:     model.TypeCompras,
		Priority: model.PriorityHigh,
	},
}

// urgencyKeywords elevam a prioridade para high independente do tipo
var urgencyKeywords = []string{"urgente", "importante"}

// Designate classifica um título livre em (tipo, prioridade).
// Função pura: mesmo título, mesmo resultado, sem efeitos colaterais.
func Designate(title string) (model.TaskType, model.TaskPriority) {
	t := strings.ToLower(title)

	taskType := model.TypeHogar
	priority := model.PriorityMedium

	for _, rule := range designationRules {
		if containsAny(t, rule.Keywords) {
			taskType = rule.Type
			priority = rule.Priority
			break
		}
	}

	if containsAny(t, urgencyKeywords) {
		priority = model.PriorityHigh
	}

	return taskType, priority
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
