package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/repo"
)

var errMockDB = errors.New("mock db failure")

// mockUserRepository 是用于测试的用户仓储模拟实现
type mockUserRepository struct {
	mu     sync.Mutex
	byID   map[int64]*domain.User
	nextID int64
	err    error // 非空时所有方法返回该错误
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byID:   make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repo.ErrDuplicateKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.byID[user.ID] = &stored
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page = page.Normalize()
	out := domain.Page[*domain.User]{Page: page.Page, Limit: page.Limit, Total: int64(len(m.byID))}
	if m.err != nil {
		return out, m.err
	}

	ids := make([]int64, 0, len(m.byID))
	for id := range m.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for i := page.Offset(); i < len(ids) && len(out.Data) < page.Limit; i++ {
		out.Data = append(out.Data, m.byID[ids[i]])
	}
	return out, nil
}

// mockCartRepository 购物车仓储模拟，合并规则与 SQL 实现一致
type mockCartRepository struct {
	items map[[2]int64]*domain.CartItem
	order [][2]int64
	err   error
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{items: make(map[[2]int64]*domain.CartItem)}
}

func (m *mockCartRepository) Upsert(ctx context.Context, item *domain.CartItem) error {
	if m.err != nil {
		return m.err
	}
	key := [2]int64{item.UserID, item.MenuID}
	if existing, ok := m.items[key]; ok {
		existing.Name = item.Name
		existing.Price = item.Price
		existing.RestaurantID = item.RestaurantID
		existing.Quantity = min(existing.Quantity+item.Quantity, domain.MaxCartQuantity)
		return nil
	}
	cp := *item
	m.items[key] = &cp
	m.order = append(m.order, key)
	return nil
}

func (m *mockCartRepository) Remove(ctx context.Context, userID, menuID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	key := [2]int64{userID, menuID}
	if _, ok := m.items[key]; !ok {
		return false, nil
	}
	delete(m.items, key)
	return true, nil
}

func (m *mockCartRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.CartItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.CartItem
	for _, key := range m.order {
		if item, ok := m.items[key]; ok && key[0] == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

// mockPaymentRepository 记录调用参数
type mockPaymentRepository struct {
	payments   []*domain.Payment
	lastUserID int64
	lastExpand bool
	err        error
}

func (m *mockPaymentRepository) ListByUser(ctx context.Context, userID int64, page domain.PageRequest) (domain.Page[*domain.Payment], error) {
	m.lastUserID = userID
	page = page.Normalize()
	out := domain.Page[*domain.Payment]{Page: page.Page, Limit: page.Limit}
	if m.err != nil {
		return out, m.err
	}
	for _, p := range m.payments {
		if p.User.ID == userID {
			out.Data = append(out.Data, p)
		}
	}
	out.Total = int64(len(out.Data))
	return out, nil
}

func (m *mockPaymentRepository) List(ctx context.Context, page domain.PageRequest, expand bool) (domain.Page[*domain.Payment], error) {
	m.lastExpand = expand
	page = page.Normalize()
	out := domain.Page[*domain.Payment]{Page: page.Page, Limit: page.Limit}
	if m.err != nil {
		return out, m.err
	}
	out.Data = m.payments
	out.Total = int64(len(m.payments))
	return out, nil
}
