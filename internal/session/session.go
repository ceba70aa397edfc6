package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cleberrangel/horario-zen-api/internal/logger"
	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/cleberrangel/horario-zen-api/internal/store"
)

// Session é o dono exclusivo das quatro coleções do lar. Todas as mutações
// passam por aqui, sob mutex, e a coleção alterada é persistida logo em
// seguida. Não há atomicidade entre coleções: uma queda entre dois Sets
// pode deixá-las inconsistentes entre si.
type Session struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time

	// lastID garante IDs monotônicos mesmo com criações no mesmo milissegundo
	lastID int64

	tasks     []model.Task
	shopping  []model.ShoppingItem
	inventory []model.InventoryItem
	settings  model.Settings
}

// NewTask descreve uma tarefa a ser criada. Type e Priority vazios são
// preenchidos pelo designador; Recurrence marca tarefas sintetizadas.
type NewTask struct {
	Title      string
	Type       model.TaskType
	Priority   model.TaskPriority
	DueDate    string
	Recurrence model.Recurrence
}

// New cria uma sessão sobre a porta de persistência informada.
// now é injetável para testes; nil usa o relógio de parede.
func New(st store.Store, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		store:    st,
		now:      now,
		settings: model.DefaultSettings(),
	}
}

// Load carrega as quatro coleções da porta de persistência. Blob ausente ou
// corrompido vira o default da coleção afetada, sem erro para o chamador.
func (s *Session) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	loadCollection(s.store, store.KeyTasks, &s.tasks, []model.Task{})
	loadCollection(s.store, store.KeyShopping, &s.shopping, []model.ShoppingItem{})
	loadCollection(s.store, store.KeyInventory, &s.inventory, []model.InventoryItem{})
	loadCollection(s.store, store.KeySettings, &s.settings, model.DefaultSettings())

	// Retoma a geração de IDs acima do maior ID já persistido
	for _, t := range s.tasks {
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
	for _, i := range s.shopping {
		if i.ID > s.lastID {
			s.lastID = i.ID
		}
	}
	for _, i := range s.inventory {
		if i.ID > s.lastID {
			s.lastID = i.ID
		}
	}

	logger.Global().Info().
		Int("tasks", len(s.tasks)).
		Int("shopping", len(s.shopping)).
		Int("inventory", len(s.inventory)).
		Bool("initialized", s.settings.Initialized).
		Msg("Estado da sessão carregado")
}

func loadCollection[T any](st store.Store, key string, dst *T, fallback T) {
	data, found, err := st.Get(key)
	if err != nil {
		logger.Global().Warn().Err(err).Str("key", key).Msg("Erro ao ler blob, usando default")
		*dst = fallback
		return
	}
	if !found {
		*dst = fallback
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Global().Warn().Err(err).Str("key", key).Msg("Blob corrompido, usando default")
		*dst = fallback
	}
}

// Today retorna a data de hoje no formato de calendário YYYY-MM-DD
func (s *Session) Today() string {
	return s.now().Format(model.DateLayout)
}

// nextID gera um ID único baseado no relógio, estritamente crescente
func (s *Session) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Session) saveTasks() error     { return s.save(store.KeyTasks, s.tasks) }
func (s *Session) saveShopping() error  { return s.save(store.KeyShopping, s.shopping) }
func (s *Session) saveInventory() error { return s.save(store.KeyInventory, s.inventory) }
func (s *Session) saveSettings() error  { return s.save(store.KeySettings, s.settings) }

func (s *Session) save(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.store.Set(key, data); err != nil {
		logger.Global().Error().Err(err).Str("key", key).Msg("Erro ao persistir coleção")
		return err
	}
	return nil
}

// InitDefaults cria as tarefas iniciais no primeiro uso. A flag
// settings.initialized garante que reexecuções não criam nada.
func (s *Session) InitDefaults() ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings.Initialized {
		return nil, nil
	}

	today := s.now().Format(model.DateLayout)
	created := []model.Task{
		s.addTaskLocked(NewTask{
			Title:    "Limpieza de cocina",
			Type:     model.TypeLimpieza,
			Priority: model.PriorityMedium,
			DueDate:  today,
		}),
		s.addTaskLocked(NewTask{
			Title:    "Revisar inventario de mercado",
			Type:     model.TypeCompras,
			Priority: model.PriorityHigh,
			DueDate:  today,
		}),
	}

	s.settings.Initialized = true

	if err := s.saveTasks(); err != nil {
		return created, err
	}
	if err := s.saveSettings(); err != nil {
		return created, err
	}
	return created, nil
}

// AddTask cria uma tarefa e persiste a coleção. Tipo e prioridade omitidos
// são preenchidos pelo designador a partir do título.
func (s *Session) AddTask(nt NewTask) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.addTaskLocked(nt)
	if err := s.saveTasks(); err != nil {
		return task, err
	}
	return task, nil
}

// addTaskLocked é o caminho único de criação de tarefas (IDs, createdAt,
// designação). Chamador segura o mutex e decide quando persistir.
func (s *Session) addTaskLocked(nt NewTask) model.Task {
	designatedType, designatedPriority := Designate(nt.Title)

	task := model.Task{
		ID:         s.nextID(),
		Title:      nt.Title,
		Type:       nt.Type,
		Priority:   nt.Priority,
		DueDate:    nt.DueDate,
		Recurrence: nt.Recurrence,
		CreatedAt:  s.now(),
	}
	if task.Type == "" {
		task.Type = designatedType
	}
	if task.Priority == "" {
		task.Priority = designatedPriority
	}
	if task.DueDate == "" {
		task.DueDate = s.now().Format(model.DateLayout)
	}

	s.tasks = append(s.tasks, task)
	return task
}

// ToggleTask inverte a conclusão da tarefa. Concluir uma limpeza profunda
// (ropa/sábanas) atualiza o lastDeepClean correspondente nas configurações.
func (s *Session) ToggleTask(id int64) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}

		s.tasks[i].Completed = !s.tasks[i].Completed
		task := s.tasks[i]

		settingsChanged := false
		if task.Completed {
			now := s.now()
			title := strings.ToLower(task.Title)
			if task.Recurrence == model.RecurrenceClothes || strings.Contains(title, "ropa") {
				s.settings.LastDeepClean.Clothes = &now
				settingsChanged = true
			}
			if task.Recurrence == model.RecurrenceSheets || strings.Contains(title, "sábanas") {
				s.settings.LastDeepClean.Sheets = &now
				settingsChanged = true
			}
		}

		if err := s.saveTasks(); err != nil {
			return task, err
		}
		if settingsChanged {
			if err := s.saveSettings(); err != nil {
				return task, err
			}
		}
		return task, nil
	}

	return model.Task{}, model.ErrTaskNotFound
}

// DeleteTask remove a tarefa da coleção
func (s *Session) DeleteTask(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return s.saveTasks()
		}
	}
	return model.ErrTaskNotFound
}

// GetScheduledTasks retorna as tarefas agendadas para a data informada
func (s *Session) GetScheduledTasks(date string) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Task
	for _, t := range s.tasks {
		if t.DueDate == date {
			out = append(out, t)
		}
	}
	return out
}

// PendingCount conta tarefas incompletas agendadas para a data informada
func (s *Session) PendingCount(date string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.tasks {
		if t.DueDate == date && !t.Completed {
			count++
		}
	}
	return count
}

// Tasks retorna uma cópia de toda a coleção de tarefas
func (s *Session) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Rollover avança tarefas incompletas vencidas para a data informada,
// escalando a prioridade para high. Idempotente: tarefas já em `today`
// não satisfazem dueDate < today. Persiste só quando algo mudou.
func (s *Session) Rollover(today string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for i := range s.tasks {
		if !s.tasks[i].Completed && s.tasks[i].DueDate < today {
			s.tasks[i].DueDate = today
			s.tasks[i].Priority = model.PriorityHigh
			changed++
		}
	}

	if changed == 0 {
		return 0, nil
	}
	return changed, s.saveTasks()
}

// Settings retorna uma cópia do registro de configurações
func (s *Session) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings grava os campos editáveis pelo usuário. Os campos de ciclo
// de vida (initialized, lastDeepClean, lastMarketDate) são preservados:
// só mudam por efeitos colaterais de conclusão de tarefa e registro de mercado.
func (s *Session) UpdateSettings(in model.Settings) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in.Initialized = s.settings.Initialized
	in.LastDeepClean = s.settings.LastDeepClean
	in.LastMarketDate = s.settings.LastMarketDate
	s.settings = in

	return s.settings, s.saveSettings()
}

// RegisterMarket registra a ida ao mercado de agora
func (s *Session) RegisterMarket() (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.settings.LastMarketDate = &now
	return s.settings, s.saveSettings()
}

// UpdateInventory repõe o item pelo nome (busca case-insensitive) ou cria um
// registro novo. A quantidade resultante nunca fica negativa.
func (s *Session) UpdateInventory(name string, quantityBatch int) (model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(name)
	for i := range s.inventory {
		if strings.ToLower(s.inventory[i].Name) == lower {
			if s.inventory[i].Quantity+quantityBatch < 0 {
				return s.inventory[i], model.ErrNegativeQuantity
			}
			s.inventory[i].Quantity += quantityBatch
			s.inventory[i].LastUpdated = s.now()
			return s.inventory[i], s.saveInventory()
		}
	}

	if quantityBatch < 0 {
		return model.InventoryItem{}, model.ErrNegativeQuantity
	}

	item := model.InventoryItem{
		ID:          s.nextID(),
		Name:        name,
		Quantity:    quantityBatch,
		Consumed:    0,
		LastUpdated: s.now(),
	}
	s.inventory = append(s.inventory, item)
	return item, s.saveInventory()
}

// ConsumeItem debita o saldo do item (busca por ID). Saldo insuficiente
// retorna ErrInsufficientQuantity sem mutação alguma.
func (s *Session) ConsumeItem(id int64, amount int) (model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		amount = 1
	}

	for i := range s.inventory {
		if s.inventory[i].ID != id {
			continue
		}
		if s.inventory[i].Quantity < amount {
			return s.inventory[i], model.ErrInsufficientQuantity
		}
		s.inventory[i].Quantity -= amount
		s.inventory[i].Consumed += amount
		s.inventory[i].LastUpdated = s.now()
		return s.inventory[i], s.saveInventory()
	}

	return model.InventoryItem{}, model.ErrItemNotFound
}

// Inventory retorna uma cópia da coleção de inventário
func (s *Session) Inventory() []model.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.InventoryItem, len(s.inventory))
	copy(out, s.inventory)
	return out
}

// ShoppingItems retorna uma cópia da lista de compras
func (s *Session) ShoppingItems() []model.ShoppingItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.ShoppingItem, len(s.shopping))
	copy(out, s.shopping)
	return out
}

// AddShoppingItem cria um item na lista de compras
func (s *Session) AddShoppingItem(name string, quantity, frequencyDays int) (model.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		quantity = 1
	}

	item := model.ShoppingItem{
		ID:            s.nextID(),
		Name:          name,
		Quantity:      quantity,
		FrequencyDays: frequencyDays,
	}
	s.shopping = append(s.shopping, item)
	return item, s.saveShopping()
}

// DeleteShoppingItem remove o item da lista de compras
func (s *Session) DeleteShoppingItem(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.shopping {
		if s.shopping[i].ID == id {
			s.shopping = append(s.shopping[:i], s.shopping[i+1:]...)
			return s.saveShopping()
		}
	}
	return model.ErrShoppingItemNotFound
}

// PurchaseShoppingItem marca o item como comprado agora
func (s *Session) PurchaseShoppingItem(id int64) (model.ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.shopping {
		if s.shopping[i].ID != id {
			continue
		}
		now := s.now()
		s.shopping[i].LastPurchased = &now
		s.shopping[i].Needed = false
		return s.shopping[i], s.saveShopping()
	}
	return model.ShoppingItem{}, model.ErrShoppingItemNotFound
}

// MarkNeededItems marca itens cuja última compra excedeu a cadência como
// necessários. Retorna quantos itens foram marcados nesta passada.
func (s *Session) MarkNeededItems() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	marked := 0
	for i := range s.shopping {
		item := &s.shopping[i]
		if item.Needed || item.LastPurchased == nil || item.FrequencyDays <= 0 {
			continue
		}
		days := int(now.Sub(*item.LastPurchased).Hours() / 24)
		if days >= item.FrequencyDays {
			item.Needed = true
			marked++
		}
	}

	if marked == 0 {
		return 0, nil
	}
	return marked, s.saveShopping()
}
