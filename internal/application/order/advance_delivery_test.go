package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/eshop/internal/domain/order"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

// 教学说明:配送推进用例单元测试
// 配送只能单步向前;已取消的订单不再推进;送达后到头

type advanceDeliveryFixture struct {
	*cancelOrderFixture
	uc *AdvanceDeliveryUseCase
}

func newAdvanceDeliveryFixture() *advanceDeliveryFixture {
	base := newCancelOrderFixture()
	tx := &fakeTransactor{itemRepo: base.itemRepo, orderRepo: base.orderRepo}
	return &advanceDeliveryFixture{
		cancelOrderFixture: base,
		uc:                 NewAdvanceDeliveryUseCase(base.orderRepo, tx, base.cache),
	}
}

func TestAdvanceDelivery_StepByStep(t *testing.T) {
	f := newAdvanceDeliveryFixture()
	orderID := f.placeOrder(t)

	// 待处理 → 备货 → 发货 → 送达
	want := []order.DeliveryStatus{
		order.DeliveryStatusReady,
		order.DeliveryStatusDispatched,
		order.DeliveryStatusCompleted,
	}
	for _, expected := range want {
		resp, err := f.uc.Execute(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, expected.String(), resp.DeliveryStatus)

		o, err := f.orderRepo.FindByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, expected, o.Delivery.Status)
	}

	// 送达后不能再推进
	_, err := f.uc.Execute(context.Background(), orderID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidOrderStatus))
}

func TestAdvanceDelivery_CancelledOrder(t *testing.T) {
	f := newAdvanceDeliveryFixture()
	orderID := f.placeOrder(t)

	_, err := f.cancelOrderFixture.uc.Execute(context.Background(), CancelOrderRequest{
		OrderID:   orderID,
		Principal: order.Principal{MemberID: 1},
	})
	require.NoError(t, err)

	// 已取消的订单不再推进配送
	_, err = f.uc.Execute(context.Background(), orderID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidOrderStatus))
}

func TestAdvanceDelivery_InvalidatesCache(t *testing.T) {
	f := newAdvanceDeliveryFixture()
	orderID := f.placeOrder(t)
	require.NoError(t, f.cache.SetOrder(context.Background(), orderID, `{"order_id":1}`, 0))

	_, err := f.uc.Execute(context.Background(), orderID)
	require.NoError(t, err)
	assert.False(t, f.cache.has(orderID))
}

func TestAdvanceDelivery_NotFound(t *testing.T) {
	f := newAdvanceDeliveryFixture()

	_, err := f.uc.Execute(context.Background(), 999)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeOrderNotFound))
}
