package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	// Create inserts a lead, assigning id and created_at. Returns
	// ErrDuplicateEmail when a lead already exists for the email.
	Create(ctx context.Context, n *NewLead) (*Lead, error)
	// GetByEmail looks up a lead by normalized email. Returns
	// ErrLeadNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*Lead, error)
	// List returns all leads, newest first.
	List(ctx context.Context) ([]*Lead, error)
	// Delete removes a lead by id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is a Repository backed by process memory, used in tests
// and when no DATABASE_URL is configured.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Lead
	byEmail map[string]*Lead
	order   []string
	now     func() time.Time
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*Lead),
		byEmail: make(map[string]*Lead),
		now:     time.Now,
	}
}

// Create stores a new lead, enforcing email uniqueness.
func (r *InMemoryRepository) Create(_ context.Context, n *NewLead) (*Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[n.Email]; exists {
		return nil, ErrDuplicateEmail
	}

	lead := &Lead{
		ID:          uuid.New().String(),
		Nombre:      n.Nombre,
		Email:       n.Email,
		Telefono:    n.Telefono,
		Source:      n.Source,
		UTMSource:   n.UTMSource,
		UTMCampaign: n.UTMCampaign,
		UTMMedium:   n.UTMMedium,
		UTMContent:  n.UTMContent,
		UTMTerm:     n.UTMTerm,
		CreatedAt:   r.now().UTC(),
	}

	r.byID[lead.ID] = lead
	r.byEmail[lead.Email] = lead
	r.order = append(r.order, lead.ID)

	return lead, nil
}

// GetByEmail retrieves a lead by normalized email.
func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.byEmail[email]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}

// List returns all leads, newest first.
func (r *InMemoryRepository) List(_ context.Context) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		if lead, ok := r.byID[r.order[i]]; ok {
			out = append(out, lead)
		}
	}
	return out, nil
}

// Delete removes a lead by id, succeeding even when absent.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	delete(r.byEmail, lead.Email)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
