package item

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/money"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// fakeItemRepo 库存调整测试用的内存仓储
// conflictTimes可以注入前N次CAS强制冲突,用来验证重试逻辑
type fakeItemRepo struct {
	mu            sync.Mutex
	items         map[uint]*item.Item
	conflictTimes int
	casCalls      int
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uint]*item.Item)}
}

func (r *fakeItemRepo) seed(id uint, stock int) {
	it, err := item.NewItem("《测试商品》", money.Money(10000), stock, item.KindBook, item.Detail{
		ISBN:   "9787111111111",
		Author: "测试作者",
	})
	if err != nil {
		panic(err)
	}
	it.ID = id
	r.items[id] = it
}

func (r *fakeItemRepo) Create(ctx context.Context, it *item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = it
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
	return r.FindByID(ctx, id)
}

func (r *fakeItemRepo) Update(ctx context.Context, it *item.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *fakeItemRepo) UpdateStock(ctx context.Context, id uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := r.items[id]
	if it.Stock+delta < 0 {
		return item.NewInsufficientStockError(id, -delta, it.Stock)
	}
	it.Stock += delta
	it.Version++
	return nil
}

func (r *fakeItemRepo) CompareAndSetStock(ctx context.Context, id uint, version int64, newStock int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.casCalls++
	// 注入冲突:模拟版本号被并发修改
	if r.conflictTimes > 0 {
		r.conflictTimes--
		r.items[id].Version++
		return item.ErrStockConflict
	}
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
	return nil, 0, nil
}

func TestAdjustStock_Restock(t *testing.T) {
	repo := newFakeItemRepo()
	repo.seed(10, 5)
	uc := NewAdjustStockUseCase(repo)

	resp, err := uc.Execute(context.Background(), AdjustStockRequest{ItemID: 10, Delta: 20})
	require.NoError(t, err)
	assert.Equal(t, 25, resp.Stock)
	assert.Equal(t, 25, repo.items[10].Stock)
}

func TestAdjustStock_WriteOff(t *testing.T) {
	repo := newFakeItemRepo()
	repo.seed(10, 5)
	uc := NewAdjustStockUseCase(repo)

	t.Run("正常核减", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), AdjustStockRequest{ItemID: 10, Delta: -3})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Stock)
	})

	t.Run("核减不能导致负库存", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), AdjustStockRequest{ItemID: 10, Delta: -10})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInsufficientStock))
		assert.Equal(t, 2, repo.items[10].Stock, "库存不应改变")
	})
}

// TestAdjustStock_RetryOnConflict 版本冲突时重读重试
func TestAdjustStock_RetryOnConflict(t *testing.T) {
	repo := newFakeItemRepo()
	repo.seed(10, 5)
	repo.conflictTimes = 2 // 前2次CAS冲突,第3次成功
	uc := NewAdjustStockUseCase(repo)

	resp, err := uc.Execute(context.Background(), AdjustStockRequest{ItemID: 10, Delta: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.Stock)
	assert.Equal(t, 3, repo.casCalls)
}

// TestAdjustStock_RetryExhausted 持续冲突时把冲突暴露给调用方
func TestAdjustStock_RetryExhausted(t *testing.T) {
	repo := newFakeItemRepo()
	repo.seed(10, 5)
	repo.conflictTimes = 10 // 冲突次数超过重试上限
	uc := NewAdjustStockUseCase(repo)

	_, err := uc.Execute(context.Background(), AdjustStockRequest{ItemID: 10, Delta: 10})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStockConflict))
	assert.Equal(t, maxRetries, repo.casCalls)
	assert.Equal(t, 5, repo.items[10].Stock, "库存不应改变")
}

func TestAdjustStock_Validation(t *testing.T) {
	repo := newFakeItemRepo()
	repo.seed(10, 5)
	uc := NewAdjustStockUseCase(repo)

	t.Run("调整量为0", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), AdjustStockRequest{ItemID: 10, Delta: 0})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("商品不存在", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), AdjustStockRequest{ItemID: 404, Delta: 5})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeItemNotFound))
	})
}
