package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/aura-store/internal/auth"
	"github.com/MikeMC777/aura-store/internal/cart"
	"github.com/MikeMC777/aura-store/internal/media"
	"github.com/MikeMC777/aura-store/internal/order"
	"github.com/MikeMC777/aura-store/internal/product"
	"github.com/MikeMC777/aura-store/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.Logger = zerolog.New(io.Discard)
}

//
// ===== in-memory repositories =====
//

type stubUsers struct {
	mu    sync.Mutex
	items map[string]*user.User
}

func (s *stubUsers) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.items {
		if v.Email == u.Email {
			return user.ErrAlreadyExist
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.items[u.ID] = &cp
	return nil
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

type stubProducts struct {
	mu        sync.Mutex
	items     map[string]*product.Product
	lastQuery product.Query
	failNext  error
	clock     time.Time
}

func (s *stubProducts) Create(_ context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	s.clock = s.clock.Add(time.Second)
	p.CreatedAt = s.clock
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *stubProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProducts) GetMany(_ context.Context, ids []string) (map[string]*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]*product.Product{}
	for _, id := range ids {
		if p, ok := s.items[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *stubProducts) List(_ context.Context, q product.Query) ([]product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = q
	out := []product.Product{}
	for _, v := range s.items {
		if q.Q != "" && !containsFold(v.Name, q.Q) && !containsFold(v.Description, q.Q) {
			continue
		}
		if q.Category != "" && v.Category != q.Category {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start := q.Offset
	if start > len(out) {
		return []product.Product{}, nil
	}
	end := start + q.Limit
	if end > len(out) || q.Limit <= 0 {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *stubProducts) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *stubProducts) put(p product.Product) {
	_ = s.Create(context.Background(), &p)
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type stubCarts struct {
	mu    sync.Mutex
	carts map[string]cart.Data
}

func (s *stubCarts) Get(_ context.Context, userID string) (cart.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := cart.Data{}
	for pid, sizes := range s.carts[userID] {
		for size, q := range sizes {
			out.Set(pid, size, q)
		}
	}
	return out, nil
}

func (s *stubCarts) Add(_ context.Context, userID, productID, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.carts[userID]
	if !ok {
		d = cart.Data{}
		s.carts[userID] = d
	}
	d.Set(productID, size, d[productID][size]+1)
	return nil
}

func (s *stubCarts) SetQuantity(_ context.Context, userID, productID, size string, qty int) error {
	if qty < 0 {
		return cart.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.carts[userID]
	if !ok {
		d = cart.Data{}
		s.carts[userID] = d
	}
	d.Set(productID, size, qty)
	return nil
}

func (s *stubCarts) clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// stubOrders clears the owner's cart on Create like the transactional PG repo;
// a failed Create leaves it untouched.
type stubOrders struct {
	mu       sync.Mutex
	carts    *stubCarts
	orders   []order.Order
	failNext error
}

func (s *stubOrders) Create(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}
	o.CreatedAt = time.Now().UTC().Add(time.Duration(len(s.orders)) * time.Second)
	o.UpdatedAt = o.CreatedAt
	s.orders = append(s.orders, *o)
	s.carts.clear(o.UserID)
	return nil
}

func (s *stubOrders) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []order.Order
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].UserID == userID {
			out = append(out, s.orders[i])
		}
	}
	return out, nil
}

func (s *stubOrders) ListAll(_ context.Context) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]order.Order, 0, len(s.orders))
	for i := len(s.orders) - 1; i >= 0; i-- {
		out = append(out, s.orders[i])
	}
	return out, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return nil
		}
	}
	return order.ErrNotFound
}

type stubMedia struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failOn   string
}

func (s *stubMedia) Upload(_ context.Context, r io.Reader, name string) (media.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.failOn {
		return media.Asset{}, errors.New("cloudinary: 500")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return media.Asset{}, err
	}
	id := fmt.Sprintf("products/%d-%s", len(s.uploaded), name)
	s.uploaded = append(s.uploaded, string(b))
	return media.Asset{URL: "https://res.cloudinary.test/" + id, PublicID: id}, nil
}

func (s *stubMedia) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, publicID)
	return nil
}

//
// ===== test server =====
//

const (
	testAdminEmail    = "admin@aura.dev"
	testAdminPassword = "admin-pass"
)

type testEnv struct {
	router   *gin.Engine
	tokens   *auth.Tokens
	users    *stubUsers
	products *stubProducts
	carts    *stubCarts
	orders   *stubOrders
	media    *stubMedia
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		tokens:   auth.NewTokens("test-secret", time.Hour),
		users:    &stubUsers{items: map[string]*user.User{}},
		products: &stubProducts{items: map[string]*product.Product{}, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		carts:    &stubCarts{carts: map[string]cart.Data{}},
		media:    &stubMedia{},
	}
	env.orders = &stubOrders{carts: env.carts}

	r, err := NewRouter(Options{AllowedOrigins: []string{"http://localhost:5173"}}, Deps{
		Users:    user.NewService(env.users, user.Admin{Email: testAdminEmail, Password: testAdminPassword}),
		Products: env.products,
		Carts:    env.carts,
		Orders:   order.NewService(env.orders, env.products, decimal.NewFromInt(10)),
		Media:    env.media,
		Tokens:   env.tokens,
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	env.router = r
	return env
}

func (e *testEnv) token(t *testing.T, subject, role string) string {
	t.Helper()
	tok, err := e.tokens.Issue(subject, role)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

// do sends a JSON request; token may be empty.
func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = strings.NewReader(b)
		default:
			raw, _ := json.Marshal(b)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Token", token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
}

