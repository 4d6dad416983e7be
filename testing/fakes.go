package testing

import (
	"context"
	"slices"
	"sync"

	"github.com/amirphl/meal-campaign-stats/models"
	"github.com/amirphl/meal-campaign-stats/repository"
	"github.com/google/uuid"
)

// FakeStore is an in-memory snapshot backing the fake repositories. Err, when set, fails every read.
type FakeStore struct {
	mu        sync.RWMutex
	Campaigns []*models.Campaign
	Orders    []*models.Order
	Messages  []*models.SMSMessage
	Admins    []*models.Admin
	Err       error

	// Calls counts reads per repository method
	Calls map[string]int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{Calls: make(map[string]int)}
}

func (s *FakeStore) AddCampaigns(c ...*models.Campaign) *FakeStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Campaigns = append(s.Campaigns, c...)
	return s
}

func (s *FakeStore) AddOrders(o ...*models.Order) *FakeStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Orders = append(s.Orders, o...)
	return s
}

func (s *FakeStore) AddMessages(m ...*models.SMSMessage) *FakeStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, m...)
	return s
}

func (s *FakeStore) AddAdmins(a ...*models.Admin) *FakeStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Admins = append(s.Admins, a...)
	return s
}

func (s *FakeStore) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Calls == nil {
		s.Calls = make(map[string]int)
	}
	s.Calls[call]++
	return s.Err
}

// CallCount returns how often a repository method was called
func (s *FakeStore) CallCount(call string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Calls[call]
}

// Repositories returns fakes for every read repository over this store
func (s *FakeStore) Repositories() (repository.CampaignRepository, repository.OrderRepository, repository.SMSMessageRepository) {
	return &FakeCampaignRepository{store: s}, &FakeOrderRepository{store: s}, &FakeSMSMessageRepository{store: s}
}

// readOnly implements the write half of repository.Repository for the fakes
type readOnly[T any] struct{}

func (readOnly[T]) Save(context.Context, *T) error        { return nil }
func (readOnly[T]) SaveBatch(context.Context, []*T) error { return nil }

// FakeCampaignRepository implements repository.CampaignRepository in memory
type FakeCampaignRepository struct {
	readOnly[models.Campaign]
	store *FakeStore
}

func (r *FakeCampaignRepository) ByID(ctx context.Context, id any) (*models.Campaign, error) {
	if err := r.store.record("CampaignRepository.ByID"); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.Campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *FakeCampaignRepository) ByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Campaign, error) {
	if err := r.store.record("CampaignRepository.ByIDs"); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []*models.Campaign{}
	for _, c := range r.store.Campaigns {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *FakeCampaignRepository) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	return r.ByIDs(ctx, filter.IDs)
}

// FakeOrderRepository implements repository.OrderRepository in memory
type FakeOrderRepository struct {
	readOnly[models.Order]
	store *FakeStore
}

func (r *FakeOrderRepository) ByID(ctx context.Context, id any) (*models.Order, error) {
	if err := r.store.record("OrderRepository.ByID"); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, o := range r.store.Orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}

func (r *FakeOrderRepository) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	if err := r.store.record("OrderRepository.ByFilter"); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []*models.Order{}
	for _, o := range r.store.Orders {
		if len(filter.CampaignIDs) > 0 && !slices.Contains(filter.CampaignIDs, o.CampaignID) {
			continue
		}
		if filter.ExcludeDeleted && o.IsDeleted() {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *FakeOrderRepository) ByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) ([]*models.Order, error) {
	return r.ByFilter(ctx, models.OrderFilter{CampaignIDs: campaignIDs, ExcludeDeleted: true}, "", 0, 0)
}

// FakeSMSMessageRepository implements repository.SMSMessageRepository in memory
type FakeSMSMessageRepository struct {
	readOnly[models.SMSMessage]
	store *FakeStore
}

func (r *FakeSMSMessageRepository) ByID(ctx context.Context, id any) (*models.SMSMessage, error) {
	if err := r.store.record("SMSMessageRepository.ByID"); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, m := range r.store.Messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *FakeSMSMessageRepository) ByFilter(ctx context.Context, filter models.SMSMessageFilter, orderBy string, limit, offset int) ([]*models.SMSMessage, error) {
	if err := r.store.record("SMSMessageRepository.ByFilter"); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []*models.SMSMessage{}
	for _, m := range r.store.Messages {
		if m.CampaignID == nil || !slices.Contains(filter.CampaignIDs, *m.CampaignID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *FakeSMSMessageRepository) ByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) ([]*models.SMSMessage, error) {
	return r.ByFilter(ctx, models.SMSMessageFilter{CampaignIDs: campaignIDs}, "", 0, 0)
}

// FakeAdminRepository implements repository.AdminRepository in memory
type FakeAdminRepository struct {
	store *FakeStore
}

func NewFakeAdminRepository(store *FakeStore) repository.AdminRepository {
	return &FakeAdminRepository{store: store}
}

func (r *FakeAdminRepository) ByID(ctx context.Context, id any) (*models.Admin, error) {
	if err := r.store.record("AdminRepository.ByID"); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, a := range r.store.Admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}
