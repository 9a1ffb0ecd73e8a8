package money

import (
	"testing"
)

// TestNew 测试金额创建
func TestNew(t *testing.T) {
	t.Run("正常金额", func(t *testing.T) {
		m, err := New(10000)
		if err != nil {
			t.Fatalf("创建金额失败: %v", err)
		}
		if m.Amount() != 10000 {
			t.Errorf("金额错误: expected=10000, got=%d", m.Amount())
		}
	})

	t.Run("负数金额应失败", func(t *testing.T) {
		_, err := New(-1)
		if err == nil {
			t.Error("负数金额应该返回错误")
		}
	})

	t.Run("零金额合法", func(t *testing.T) {
		m, err := New(0)
		if err != nil {
			t.Fatalf("零金额应该合法: %v", err)
		}
		if m != Zero {
			t.Errorf("零金额应等于Zero")
		}
	})
}

// TestMoney_Add 测试加法
func TestMoney_Add(t *testing.T) {
	a := Money(10000)
	b := Money(6700)

	sum := a.Add(b)
	if sum.Amount() != 16700 {
		t.Errorf("加法结果错误: expected=16700, got=%d", sum.Amount())
	}

	// 原值不变（值语义）
	if a.Amount() != 10000 {
		t.Errorf("Add不应修改原值")
	}
}

// TestMoney_Multiply 测试乘法
func TestMoney_Multiply(t *testing.T) {
	price := Money(10000) // 100.00元

	total := price.Multiply(2)
	if total.Amount() != 20000 {
		t.Errorf("乘法结果错误: expected=20000, got=%d", total.Amount())
	}
}

// TestMoney_Equality 测试按值比较
func TestMoney_Equality(t *testing.T) {
	a := Money(500)
	b := Money(500)
	if a != b {
		t.Error("相同金额应该相等")
	}
}

// TestMoney_Yuan 测试元格式化
func TestMoney_Yuan(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{26700, "267.00"},
		{100, "1.00"},
		{5, "0.05"},
		{0, "0.00"},
	}

	for _, c := range cases {
		got := Money(c.amount).Yuan()
		if got != c.want {
			t.Errorf("Yuan(%d)错误: expected=%s, got=%s", c.amount, c.want, got)
		}
	}
}
