package order

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/eshop/internal/domain/order"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// 教学说明:取消订单用例单元测试
//
// 取消是三道闸门的流程:授权 → 状态守卫 → 变更+恢复库存
// 测试重点:
// 1. 库存恢复与明细数量严格一致(下单-取消往返后库存复原)
// 2. 被任何一道闸门拦下时,订单、配送、库存全都不动
// 3. 取消不幂等:重复取消报状态错误,库存只恢复一次

// cancelOrderFixture 在下单环境之上增加取消用例与缓存
type cancelOrderFixture struct {
	*placeOrderFixture
	cache *fakeOrderCache
	uc    *CancelOrderUseCase
}

func newCancelOrderFixture() *cancelOrderFixture {
	base := newPlaceOrderFixture()
	cache := newFakeOrderCache()
	tx := &fakeTransactor{itemRepo: base.itemRepo, orderRepo: base.orderRepo}
	return &cancelOrderFixture{
		placeOrderFixture: base,
		cache:             cache,
		uc:                NewCancelOrderUseCase(base.orderRepo, base.itemRepo, tx, base.events, cache),
	}
}

// placeOrder 预置一笔订单:会员1购买商品10两件(库存10 → 8)
func (f *cancelOrderFixture) placeOrder(t *testing.T) uint {
	t.Helper()
	f.seedMember(1)
	f.seedItem(10, 10000, 10)
	resp, err := f.placeOrderFixture.uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID:      1,
		Items:         []PlaceOrderItem{{ItemID: 10, Quantity: 2}},
		PaymentMethod: order.PaymentMethodCard,
	})
	require.NoError(t, err)
	require.Equal(t, 8, f.itemRepo.stockOf(10))
	return resp.OrderID
}

func TestCancelOrder_ByOwner(t *testing.T) {
	f := newCancelOrderFixture()
	orderID := f.placeOrder(t)
	require.NoError(t, f.cache.SetOrder(context.Background(), orderID, `{"order_id":1}`, 0))

	resp, err := f.uc.Execute(context.Background(), CancelOrderRequest{
		OrderID:   orderID,
		Principal: order.Principal{MemberID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCancelled.String(), resp.Status)

	// 下单-取消往返后库存完全复原
	assert.Equal(t, 10, f.itemRepo.stockOf(10))

	// 订单已取消,配送复位到待处理
	saved, err := f.orderRepo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCancelled, saved.Status)
	assert.Equal(t, order.DeliveryStatusPending, saved.Delivery.Status)

	// 缓存已删除,取消事件已发布
	assert.False(t, f.cache.has(orderID))
	assert.Equal(t, 1, f.events.cancelledCount())
}

func TestCancelOrder_ByAdmin(t *testing.T) {
	f := newCancelOrderFixture()
	orderID := f.placeOrder(t)

	// 管理员(会员999)不是订单所有者,但有管理能力
	_, err := f.uc.Execute(context.Background(), CancelOrderRequest{
		OrderID:   orderID,
		Principal: order.Principal{MemberID: 999, Admin: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, f.itemRepo.stockOf(10))
}

func TestCancelOrder_ByStranger(t *testing.T) {
	f := newCancelOrderFixture()
	orderID := f.placeOrder(t)

	_, err := f.uc.Execute(context.Background(), CancelOrderRequest{
		OrderID:   orderID,
		Principal: order.Principal{MemberID: 2},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeForbidden))

	// 授权失败时一切不动:状态、库存、事件
	saved, err := f.orderRepo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusPlaced, saved.Status)
	assert.Equal(t, 8, f.itemRepo.stockOf(10))
	assert.Equal(t, 0, f.events.cancelledCount())
}

// TestCancelOrder_Twice 取消不幂等
func TestCancelOrder_Twice(t *testing.T) {
	f := newCancelOrderFixture()
	orderID := f.placeOrder(t)
	owner := order.Principal{MemberID: 1}

	_, err := f.uc.Execute(context.Background(), CancelOrderRequest{OrderID: orderID, Principal: owner})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), CancelOrderRequest{OrderID: orderID, Principal: owner})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidOrderStatus))

	// 库存只恢复一次
	assert.Equal(t, 10, f.itemRepo.stockOf(10))
	assert.Equal(t, 1, f.events.cancelledCount())
}

// gateOrderRepo 包装订单仓储:两个并发事务都读完订单后才放行,
// 强制复现"双击取消"最坏的交错——双方都看到取消前的状态
type gateOrderRepo struct {
	*fakeOrderRepo
	gate sync.WaitGroup
}

func (r *gateOrderRepo) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	o, err := r.fakeOrderRepo.LockByID(ctx, id)
	r.gate.Done()
	r.gate.Wait()
	return o, err
}

// TestCancelOrder_ConcurrentDoubleCancel 并发双击取消
// 两个请求同时读到"已下单",只能有一个取消成功,
// 落败方报状态错误且它的库存恢复被整体回滚——库存只恢复一次
func TestCancelOrder_ConcurrentDoubleCancel(t *testing.T) {
	f := newCancelOrderFixture()
	orderID := f.placeOrder(t)

	gated := &gateOrderRepo{fakeOrderRepo: f.orderRepo}
	gated.gate.Add(2)
	tx := &fakeTransactor{itemRepo: f.itemRepo, orderRepo: f.orderRepo}
	uc := NewCancelOrderUseCase(gated, f.itemRepo, tx, f.events, f.cache)

	owner := order.Principal{MemberID: 1}
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := uc.Execute(context.Background(), CancelOrderRequest{OrderID: orderID, Principal: owner})
			errs <- err
		}()
	}

	var success, conflict int
	for i := 0; i < 2; i++ {
		if err := <-errs; err == nil {
			success++
		} else {
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidOrderStatus))
			conflict++
		}
	}
	assert.Equal(t, 1, success, "两个并发取消只能成功一个")
	assert.Equal(t, 1, conflict, "落败方应报状态错误")

	// 库存恰好恢复一次:8 + 2 = 10,而不是12
	assert.Equal(t, 10, f.itemRepo.stockOf(10))
	assert.Equal(t, 1, f.events.cancelledCount())

	saved, err := f.orderRepo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusCancelled, saved.Status)
}

// TestCancelOrder_AfterDispatch 已发货订单不能取消
// 取消被拒后订单状态与配送状态都保持原样
func TestCancelOrder_AfterDispatch(t *testing.T) {
	f := newCancelOrderFixture()
	orderID := f.placeOrder(t)

	// 直接把配送置为已发货
	require.NoError(t, f.orderRepo.UpdateDeliveryStatus(context.Background(), orderID, order.DeliveryStatusPending, order.DeliveryStatusDispatched))

	_, err := f.uc.Execute(context.Background(), CancelOrderRequest{
		OrderID:   orderID,
		Principal: order.Principal{MemberID: 1},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidOrderStatus))

	saved, err := f.orderRepo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderStatusPlaced, saved.Status, "订单状态不应改变")
	assert.Equal(t, order.DeliveryStatusDispatched, saved.Delivery.Status, "配送状态不应改变")
	assert.Equal(t, 8, f.itemRepo.stockOf(10), "库存不应恢复")
}

func TestCancelOrder_AwaitingPayment(t *testing.T) {
	f := newCancelOrderFixture()
	f.seedMember(1)
	f.seedItem(10, 10000, 10)

	// 转账支付的待支付订单同样可以取消
	resp, err := f.placeOrderFixture.uc.Execute(context.Background(), PlaceOrderRequest{
		MemberID:      1,
		Items:         []PlaceOrderItem{{ItemID: 10, Quantity: 3}},
		PaymentMethod: order.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, 7, f.itemRepo.stockOf(10))

	_, err = f.uc.Execute(context.Background(), CancelOrderRequest{
		OrderID:   resp.OrderID,
		Principal: order.Principal{MemberID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, f.itemRepo.stockOf(10))
}

func TestCancelOrder_NotFound(t *testing.T) {
	f := newCancelOrderFixture()

	_, err := f.uc.Execute(context.Background(), CancelOrderRequest{
		OrderID:   404,
		Principal: order.Principal{MemberID: 1},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeOrderNotFound))
}
