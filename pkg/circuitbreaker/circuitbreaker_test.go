package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("order-events", Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// TestCircuitBreaker_Closed 关闭状态下请求正常通过
func TestCircuitBreaker_Closed(t *testing.T) {
	cb := newTestBreaker(30 * time.Second)

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("期望成功，实际失败: %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("期望状态为CLOSED，实际%s", cb.State())
	}
	if counts := cb.Counts(); counts.TotalSuccesses != 10 {
		t.Errorf("期望成功10次，实际%d次", counts.TotalSuccesses)
	}
}

// TestCircuitBreaker_TripOpen 连续失败触发熔断,之后快速失败
func TestCircuitBreaker_TripOpen(t *testing.T) {
	cb := newTestBreaker(30 * time.Second)

	// 连续3次发布失败触发熔断
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error {
			return errors.New("amqp: connection refused")
		})
	}

	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	// 熔断打开后不再调用实际函数
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if err != ErrOpenState {
		t.Errorf("期望返回ErrOpenState，实际%v", err)
	}
	if called {
		t.Error("熔断器打开时不应该调用实际函数")
	}
}

// TestCircuitBreaker_Recovery 超时后半开探测,成功则恢复
func TestCircuitBreaker_Recovery(t *testing.T) {
	cb := newTestBreaker(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}
	if cb.State() != StateOpen {
		t.Fatalf("期望状态为OPEN，实际%s", cb.State())
	}

	// 等过熔断期,进入半开状态
	time.Sleep(150 * time.Millisecond)

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("半开状态探测请求期望成功，实际%v", err)
	}
	if !called {
		t.Error("半开状态应该放行探测请求")
	}

	if cb.State() != StateClosed {
		t.Errorf("探测成功后期望状态转为CLOSED，实际%s", cb.State())
	}
}

// TestCircuitBreaker_ProbeFailure 半开探测失败立即转回打开
func TestCircuitBreaker_ProbeFailure(t *testing.T) {
	cb := newTestBreaker(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}

	time.Sleep(150 * time.Millisecond)

	_ = cb.Execute(func() error {
		return errors.New("still down")
	})

	if cb.State() != StateOpen {
		t.Errorf("期望状态转回OPEN，实际%s", cb.State())
	}
}

// TestCircuitBreaker_StateChangeCallback 状态变化回调完整走一圈
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := newTestBreaker(100 * time.Millisecond)

	var changes []string
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		changes = append(changes, from.String()+"->"+to.String())
	})

	// CLOSED -> OPEN
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}

	// OPEN -> HALF_OPEN -> CLOSED
	time.Sleep(150 * time.Millisecond)
	_ = cb.Execute(func() error { return nil })

	expected := []string{
		"CLOSED->OPEN",
		"OPEN->HALF_OPEN",
		"HALF_OPEN->CLOSED",
	}
	if len(changes) != len(expected) {
		t.Fatalf("期望%d次状态变化，实际%d次: %v", len(expected), len(changes), changes)
	}
	for i := range expected {
		if changes[i] != expected[i] {
			t.Errorf("第%d次状态变化期望%s，实际%s", i+1, expected[i], changes[i])
		}
	}
}

// TestCircuitBreaker_HalfOpenLimit 半开状态限制探测请求数
func TestCircuitBreaker_HalfOpenLimit(t *testing.T) {
	cb := newTestBreaker(100 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errors.New("fail") })
	}

	time.Sleep(150 * time.Millisecond)

	// MaxRequests=2:在探测请求未出结果前,超出配额的请求被拒绝
	release := make(chan struct{})
	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			done <- cb.Execute(func() error {
				<-release
				return nil
			})
		}()
	}
	// 等两个探测请求占满配额
	time.Sleep(50 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != ErrOpenState {
		t.Errorf("超出半开配额的请求期望ErrOpenState，实际%v", err)
	}

	close(release)
	<-done
	<-done
}
