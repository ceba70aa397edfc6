package session

import (
	"testing"

	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestDesignate(t *testing.T) {
	tests := []struct {
		title        string
		wantType     model.TaskType
		wantPriority model.TaskPriority
	}{
		{"Lavar la ropa", model.TypeLimpieza, model.PriorityMedium},
		{"Comprar leche", model.TypeCompras, model.PriorityHigh},
		{"Comprar leche urgente", model.TypeCompras, model.PriorityHigh},
		{"Pasear al perro", model.TypeHogar, model.PriorityMedium},
		{"Limpiar el baño urgente", model.TypeLimpieza, model.PriorityHigh},
		{"Barrer la sala", model.TypeLimpieza, model.PriorityMedium},
		{"Ir al super", model.TypeCompras, model.PriorityHigh},
		{"Llamada importante", model.TypeHogar, model.PriorityHigh},
		{"LAVAR PLATOS", model.TypeLimpieza, model.PriorityMedium},
		{"", model.TypeHogar, model.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			gotType, gotPriority := Designate(tt.title)
			if gotType != tt.wantType {
				t.Errorf("Designate(%q) type = %s, want %s", tt.title, gotType, tt.wantType)
			}
			if gotPriority != tt.wantPriority {
				t.Errorf("Designate(%q) priority = %s, want %s", tt.title, gotPriority, tt.wantPriority)
			}
		})
	}
}

// For any title, designation is deterministic and always yields a valid
// type/priority pair; urgency keywords always force high priority
func TestDesignateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("designation is deterministic", prop.ForAll(
		func(title string) bool {
			t1, p1 := Designate(title)
			t2, p2 := Designate(title)
			return t1 == t2 && p1 == p2
		},
		gen.AnyString(),
	))

	properties.Property("designation always yields valid type and priority", prop.ForAll(
		func(title string) bool {
			taskType, priority := Designate(title)
			return model.IsValidType(taskType) && model.IsValidPriority(priority)
		},
		gen.AnyString(),
	))

	properties.Property("urgency keywords force high priority", prop.ForAll(
		func(prefix string) bool {
			_, priority := Designate(prefix + " urgente")
			return priority == model.PriorityHigh
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
