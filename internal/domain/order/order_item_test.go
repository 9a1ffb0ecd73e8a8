package order

import (
	"testing"

	"github.com/xiebiao/eshop/internal/domain/item"
	"github.com/xiebiao/eshop/internal/domain/money"
	apperrors "github.com/xiebiao/eshop/pkg/errors"
)

func newTestItem(t *testing.T, id uint, price int64, stock int) *item.Item {
	t.Helper()
	it, err := item.NewItem("测试商品", money.Money(price), stock, item.KindBook, item.Detail{ISBN: "9787111111111"})
	if err != nil {
		t.Fatalf("创建测试商品失败: %v", err)
	}
	it.ID = id
	return it
}

// TestNewOrderItem 测试订单明细工厂(带扣库存副作用)
func TestNewOrderItem(t *testing.T) {
	t.Run("创建明细同时扣减库存", func(t *testing.T) {
		it := newTestItem(t, 1, 10000, 10)

		oi, err := NewOrderItem(it, 2)
		if err != nil {
			t.Fatalf("创建明细失败: %v", err)
		}

		// 场景A:库存10,买2 → 剩8,快照价=下单时单价
		if it.Stock != 8 {
			t.Errorf("扣减后库存错误: expected=8, got=%d", it.Stock)
		}
		if oi.Price != 10000 {
			t.Errorf("价格快照错误: expected=10000, got=%d", oi.Price)
		}
		if oi.ItemID != 1 {
			t.Errorf("商品ID错误: got=%d", oi.ItemID)
		}
		if oi.Subtotal() != 20000 {
			t.Errorf("小计错误: expected=20000, got=%d", oi.Subtotal())
		}
	})

	t.Run("库存不足时不产生明细且库存不变", func(t *testing.T) {
		// 场景B:库存10,买11 → 失败,库存仍为10
		it := newTestItem(t, 1, 10000, 10)

		_, err := NewOrderItem(it, 11)
		if err == nil {
			t.Fatal("库存不足应该失败")
		}
		if !apperrors.IsCode(err, apperrors.ErrCodeInsufficientStock) {
			t.Errorf("应返回库存不足错误, got=%v", err)
		}
		if it.Stock != 10 {
			t.Errorf("失败后库存应不变: expected=10, got=%d", it.Stock)
		}
	})

	t.Run("数量非正数应失败且不扣库存", func(t *testing.T) {
		it := newTestItem(t, 1, 10000, 10)

		if _, err := NewOrderItem(it, 0); err == nil {
			t.Error("数量为0应该失败")
		}
		if _, err := NewOrderItem(it, -1); err == nil {
			t.Error("负数数量应该失败")
		}
		if it.Stock != 10 {
			t.Errorf("非法参数不应扣库存: got=%d", it.Stock)
		}
	})
}

// TestOrderItem_PriceSnapshot 改价不影响已有明细
func TestOrderItem_PriceSnapshot(t *testing.T) {
	it := newTestItem(t, 1, 10000, 10)

	oi, err := NewOrderItem(it, 2)
	if err != nil {
		t.Fatalf("创建明细失败: %v", err)
	}

	// 商家改价
	if err := it.UpdatePrice(99900); err != nil {
		t.Fatalf("改价失败: %v", err)
	}

	// 明细仍使用下单时的快照价
	if oi.Price != 10000 {
		t.Errorf("快照价不应随改价变化: expected=10000, got=%d", oi.Price)
	}
	if oi.Subtotal() != 20000 {
		t.Errorf("小计不应随改价变化: expected=20000, got=%d", oi.Subtotal())
	}
}

// TestOrderItem_Cancel 取消明细恢复库存
func TestOrderItem_Cancel(t *testing.T) {
	it := newTestItem(t, 1, 10000, 10)

	oi, err := NewOrderItem(it, 3)
	if err != nil {
		t.Fatalf("创建明细失败: %v", err)
	}
	if it.Stock != 7 {
		t.Fatalf("扣减后库存错误: got=%d", it.Stock)
	}

	// 取消后库存精确恢复到下单前
	if err := oi.Cancel(it); err != nil {
		t.Fatalf("取消明细失败: %v", err)
	}
	if it.Stock != 10 {
		t.Errorf("恢复后库存错误: expected=10, got=%d", it.Stock)
	}
}
