package service

import (
	"context"
	"sync"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// In-memory implementations of the persistence ports.

type memTx struct{}

func (memTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memGoodsRepo struct {
	docs map[string]*entity.GoodsRequest
}

func newMemGoodsRepo() *memGoodsRepo {
	return &memGoodsRepo{docs: make(map[string]*entity.GoodsRequest)}
}

func (r *memGoodsRepo) Create(_ context.Context, req *entity.GoodsRequest) error {
	req.SetVersion(1)
	r.docs[req.ID] = req
	return nil
}

func (r *memGoodsRepo) FindByID(_ context.Context, id string) (*entity.GoodsRequest, error) {
	req, ok := r.docs[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return req, nil
}

func (r *memGoodsRepo) FindAll(_ context.Context) ([]*entity.GoodsRequest, error) {
	var out []*entity.GoodsRequest
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *memGoodsRepo) FindByOwner(_ context.Context, ownerID string) ([]*entity.GoodsRequest, error) {
	var out []*entity.GoodsRequest
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memGoodsRepo) Update(_ context.Context, req *entity.GoodsRequest) error {
	stored, ok := r.docs[req.ID]
	if !ok {
		return workflow.ErrNotFound
	}
	if stored.DocumentVersion() != req.DocumentVersion() {
		return workflow.ErrConflict
	}
	req.SetVersion(req.DocumentVersion() + 1)
	r.docs[req.ID] = req
	return nil
}

func (r *memGoodsRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return workflow.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type memProposalRepo struct {
	docs map[string]*entity.ProjectProposal
}

func newMemProposalRepo() *memProposalRepo {
	return &memProposalRepo{docs: make(map[string]*entity.ProjectProposal)}
}

func (r *memProposalRepo) Create(_ context.Context, p *entity.ProjectProposal) error {
	p.SetVersion(1)
	r.docs[p.ID] = p
	return nil
}

func (r *memProposalRepo) FindByID(_ context.Context, id string) (*entity.ProjectProposal, error) {
	p, ok := r.docs[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return p, nil
}

func (r *memProposalRepo) FindAll(_ context.Context) ([]*entity.ProjectProposal, error) {
	var out []*entity.ProjectProposal
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *memProposalRepo) FindByOwner(_ context.Context, ownerID string) ([]*entity.ProjectProposal, error) {
	var out []*entity.ProjectProposal
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memProposalRepo) Update(_ context.Context, p *entity.ProjectProposal) error {
	stored, ok := r.docs[p.ID]
	if !ok {
		return workflow.ErrNotFound
	}
	if stored.DocumentVersion() != p.DocumentVersion() {
		return workflow.ErrConflict
	}
	p.SetVersion(p.DocumentVersion() + 1)
	r.docs[p.ID] = p
	return nil
}

func (r *memProposalRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return workflow.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type memPaymentRepo struct {
	docs map[string]*entity.PaymentRequest
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{docs: make(map[string]*entity.PaymentRequest)}
}

func (r *memPaymentRepo) Create(_ context.Context, p *entity.PaymentRequest) error {
	p.SetVersion(1)
	r.docs[p.ID] = p
	return nil
}

func (r *memPaymentRepo) FindByID(_ context.Context, id string) (*entity.PaymentRequest, error) {
	p, ok := r.docs[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return p, nil
}

func (r *memPaymentRepo) FindAll(_ context.Context) ([]*entity.PaymentRequest, error) {
	var out []*entity.PaymentRequest
	for _, d := range r.docs {
		out = append(out, d)
	}
	return out, nil
}

func (r *memPaymentRepo) FindByOwner(_ context.Context, ownerID string) ([]*entity.PaymentRequest, error) {
	var out []*entity.PaymentRequest
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) Update(_ context.Context, p *entity.PaymentRequest) error {
	stored, ok := r.docs[p.ID]
	if !ok {
		return workflow.ErrNotFound
	}
	if stored.DocumentVersion() != p.DocumentVersion() {
		return workflow.ErrConflict
	}
	p.SetVersion(p.DocumentVersion() + 1)
	r.docs[p.ID] = p
	return nil
}

func (r *memPaymentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return workflow.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type memHistory struct {
	entries map[string][]workflow.Entry
}

func newMemHistory() *memHistory {
	return &memHistory{entries: make(map[string][]workflow.Entry)}
}

func (h *memHistory) Append(_ context.Context, docType, docID string, entries []workflow.Entry) error {
	key := docType + "/" + docID
	h.entries[key] = append(h.entries[key], entries...)
	return nil
}

func (h *memHistory) FindByDocument(_ context.Context, docType, docID string) ([]workflow.Entry, error) {
	return h.entries[docType+"/"+docID], nil
}

type memNotifications struct {
	rows []*entity.Notification
}

func (n *memNotifications) Create(_ context.Context, row *entity.Notification) error {
	n.rows = append(n.rows, row)
	return nil
}

func (n *memNotifications) FindByUser(_ context.Context, userID string) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, row := range n.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (n *memNotifications) MarkRead(_ context.Context, id, userID string) error {
	for _, row := range n.rows {
		if row.ID == id && row.UserID == userID {
			row.IsRead = true
			return nil
		}
	}
	return workflow.ErrNotFound
}

func (n *memNotifications) MarkAllRead(_ context.Context, userID string) error {
	for _, row := range n.rows {
		if row.UserID == userID {
			row.IsRead = true
		}
	}
	return nil
}

type memUsers struct {
	users map[string]*entity.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*entity.User)}
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return u, nil
}

func (r *memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, workflow.ErrNotFound
}

func (r *memUsers) FindByRole(_ context.Context, role workflow.Role) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		for _, ur := range u.Roles {
			if ur == role {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (r *memUsers) FindAll(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memUsers) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return workflow.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return workflow.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func newMemCounters() *memCounters {
	return &memCounters{values: make(map[string]int64)}
}

func (c *memCounters) Next(_ context.Context, counterType, year string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := counterType + "/" + year
	c.values[key]++
	return c.values[key], nil
}

type memCostCenters struct {
	centers map[string]*entity.CostCenter
}

func newMemCostCenters() *memCostCenters {
	return &memCostCenters{centers: make(map[string]*entity.CostCenter)}
}

func (r *memCostCenters) Create(_ context.Context, c *entity.CostCenter) error {
	r.centers[c.ID] = c
	return nil
}

func (r *memCostCenters) FindByID(_ context.Context, id string) (*entity.CostCenter, error) {
	c, ok := r.centers[id]
	if !ok {
		return nil, workflow.ErrNotFound
	}
	return c, nil
}

func (r *memCostCenters) FindAll(_ context.Context) ([]*entity.CostCenter, error) {
	var out []*entity.CostCenter
	for _, c := range r.centers {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCostCenters) Update(_ context.Context, c *entity.CostCenter) error {
	if _, ok := r.centers[c.ID]; !ok {
		return workflow.ErrNotFound
	}
	r.centers[c.ID] = c
	return nil
}

func (r *memCostCenters) Delete(_ context.Context, id string) error {
	if _, ok := r.centers[id]; !ok {
		return workflow.ErrNotFound
	}
	delete(r.centers, id)
	return nil
}

func (r *memCostCenters) Count(_ context.Context) (int64, error) {
	return int64(len(r.centers)), nil
}

func userWithRoles(id, username string, roles ...workflow.Role) *entity.User {
	return &entity.User{ID: id, Username: username, FullName: username, Roles: roles}
}

// Compile-time checks that the fakes satisfy the ports.
var (
	_ port.TransactionManager        = memTx{}
	_ port.GoodsRequestRepository    = (*memGoodsRepo)(nil)
	_ port.ProjectProposalRepository = (*memProposalRepo)(nil)
	_ port.PaymentRequestRepository  = (*memPaymentRepo)(nil)
	_ port.HistoryRepository         = (*memHistory)(nil)
	_ port.NotificationRepository    = (*memNotifications)(nil)
	_ port.UserRepository            = (*memUsers)(nil)
	_ port.CounterRepository         = (*memCounters)(nil)
	_ port.CostCenterRepository      = (*memCostCenters)(nil)
)
