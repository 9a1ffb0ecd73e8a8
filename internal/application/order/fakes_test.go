package order

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/member"
	"github.com/xiebiao/eshop/internal/domain/order"
)

// 教学说明:用例层单元测试的内存假实现
//
// 测试关注的是用例编排逻辑(事务边界、回滚、授权、状态守卫),
// 不依赖真实的MySQL/Redis/RabbitMQ:
// 1. fakeItemRepo的UpdateStock在互斥锁内做条件扣减,
//    与生产实现"UPDATE ... WHERE stock + ? >= 0"语义一致
// 2. fakeTransactor用操作日志模拟回滚:fn返回error时,
//    按逆序撤销本事务内的库存变更和订单创建
// 3. 各假实现都是并发安全的,可以直接用于并发下单测试

// txJournal 单个事务内的操作日志
type txJournal struct {
	mu     sync.Mutex
	deltas []stockDelta
	orders []uint
}

type stockDelta struct {
	itemID uint
	delta  int
}

func (j *txJournal) recordStock(itemID uint, delta int) {
	j.mu.Lock()
	j.deltas = append(j.deltas, stockDelta{itemID: itemID, delta: delta})
	j.mu.Unlock()
}

func (j *txJournal) recordOrder(orderID uint) {
	j.mu.Lock()
	j.orders = append(j.orders, orderID)
	j.mu.Unlock()
}

type txJournalKey struct{}

func journalFrom(ctx context.Context) *txJournal {
	j, _ := ctx.Value(txJournalKey{}).(*txJournal)
	return j
}

// fakeTransactor 内存事务执行器
// fn成功则保留全部变更,失败则按日志逆序撤销
type fakeTransactor struct {
	itemRepo  *fakeItemRepo
	orderRepo *fakeOrderRepo
}

func (t *fakeTransactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	j := &txJournal{}
	txCtx := context.WithValue(ctx, txJournalKey{}, j)

	if err := fn(txCtx); err != nil {
		// 回滚:逆序撤销库存变更
		for i := len(j.deltas) - 1; i >= 0; i-- {
			t.itemRepo.revertStock(j.deltas[i].itemID, -j.deltas[i].delta)
		}
		for _, id := range j.orders {
			t.orderRepo.remove(id)
		}
		return err
	}
	return nil
}

// fakeItemRepo 内存商品仓储
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uint]*item.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uint]*item.Item)}
}

func (r *fakeItemRepo) put(it *item.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *it
	r.items[it.ID] = &cp
}

func (r *fakeItemRepo) stockOf(id uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].Stock
}

func (r *fakeItemRepo) Create(ctx context.Context, it *item.Item) error {
	r.put(it)
	return nil
}

func (r *fakeItemRepo) FindByID(ctx context.Context, id uint) (*item.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, item.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) LockByID(ctx context.Context, id uint) (*item.Item, error) {
	// 假实现不模拟行锁本身,串行化由UpdateStock的条件扣减保证
	return r.FindByID(ctx, id)
}

func (r *fakeItemRepo) Update(ctx context.Context, it *item.Item) error {
	r.put(it)
	return nil
}

func (r *fakeItemRepo) UpdateStock(ctx context.Context, id uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return item.ErrItemNotFound
	}
	// 条件扣减:与生产SQL"stock + ? >= 0"语义一致
	if it.Stock+delta < 0 {
		return item.NewInsufficientStockError(id, -delta, it.Stock)
	}
	it.Stock += delta
	it.Version++
	if j := journalFrom(ctx); j != nil {
		j.recordStock(id, delta)
	}
	return nil
}

// revertStock 回滚专用,无条件补偿
func (r *fakeItemRepo) revertStock(id uint, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if it, ok := r.items[id]; ok {
		it.Stock += delta
	}
}

func (r *fakeItemRepo) CompareAndSetStock(ctx context.Context, id uint, version int64, newStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return item.ErrItemNotFound
	}
	if it.Version != version {
		return item.ErrStockConflict
	}
	it.Stock = newStock
	it.Version++
	return nil
}

func (r *fakeItemRepo) List(ctx context.Context, params item.ListParams) ([]*item.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*item.Item
	for _, it := range r.items {
		cp := *it
		list = append(list, &cp)
	}
	return list, int64(len(list)), nil
}

// fakeOrderRepo 内存订单仓储
type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID uint
	orders map[uint]*order.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{nextID: 1, orders: make(map[uint]*order.Order)}
}

func cloneOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = make([]order.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	o.Delivery.OrderID = o.ID
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	r.orders[o.ID] = cloneOrder(o)
	if j := journalFrom(ctx); j != nil {
		j.recordOrder(o.ID)
	}
	return nil
}

func (r *fakeOrderRepo) remove(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	// 假实现不模拟行锁本身,串行化由Update/UpdateDeliveryStatus的
	// 条件流转保证(与生产的第二道防线语义一致)
	return r.FindByID(ctx, id)
}

func (r *fakeOrderRepo) FindSummaryByID(ctx context.Context, id uint) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	cp := *o
	cp.Items = nil
	return &cp, nil
}

func (r *fakeOrderRepo) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			return cloneOrder(o), nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *order.Order, from order.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	// 条件流转:与生产SQL"WHERE id = ? AND status = ?"语义一致,
	// 并发取消的后到者在这里被拦下
	if stored.Status != from {
		return order.ErrInvalidStatusTransition
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *fakeOrderRepo) UpdateDeliveryStatus(ctx context.Context, orderID uint, from, to order.DeliveryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return order.ErrOrderNotFound
	}
	if o.Delivery.Status != from {
		return order.ErrInvalidStatusTransition
	}
	o.Delivery.Status = to
	return nil
}

func (r *fakeOrderRepo) ListByMemberID(ctx context.Context, memberID uint, page, pageSize int) ([]*order.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*order.Order
	for _, o := range r.orders {
		if o.MemberID == memberID {
			list = append(list, cloneOrder(o))
		}
	}
	return list, int64(len(list)), nil
}

// fakeMemberRepo 内存会员仓储
type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[uint]*member.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uint]*member.Member)}
}

func (r *fakeMemberRepo) put(m *member.Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.members[m.ID] = &cp
}

func (r *fakeMemberRepo) Create(ctx context.Context, m *member.Member) error {
	r.put(m)
	return nil
}

func (r *fakeMemberRepo) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, member.ErrMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMemberRepo) FindByEmail(ctx context.Context, email string) (*member.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, member.ErrMemberNotFound
}

func (r *fakeMemberRepo) Update(ctx context.Context, m *member.Member) error {
	r.put(m)
	return nil
}

// fakeEventPublisher 记录事件的假发布者
type fakeEventPublisher struct {
	mu        sync.Mutex
	placed    []OrderEvent
	cancelled []OrderEvent
	failWith  error // 非nil时所有发布都失败
}

func (p *fakeEventPublisher) PublishOrderPlaced(ctx context.Context, event OrderEvent) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.mu.Lock()
	p.placed = append(p.placed, event)
	p.mu.Unlock()
	return nil
}

func (p *fakeEventPublisher) PublishOrderCancelled(ctx context.Context, event OrderEvent) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.mu.Lock()
	p.cancelled = append(p.cancelled, event)
	p.mu.Unlock()
	return nil
}

func (p *fakeEventPublisher) placedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.placed)
}

func (p *fakeEventPublisher) cancelledCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cancelled)
}

// fakeOrderCache 内存订单缓存
type fakeOrderCache struct {
	mu   sync.Mutex
	data map[uint]string
}

func newFakeOrderCache() *fakeOrderCache {
	return &fakeOrderCache{data: make(map[uint]string)}
}

func (c *fakeOrderCache) GetOrder(ctx context.Context, orderID uint) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[orderID], nil
}

func (c *fakeOrderCache) SetOrder(ctx context.Context, orderID uint, orderJSON string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[orderID] = orderJSON
	return nil
}

func (c *fakeOrderCache) DeleteOrder(ctx context.Context, orderID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, orderID)
	return nil
}

func (c *fakeOrderCache) has(orderID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[orderID]
	return ok
}
