package member

import (
	"time"
)

// Address 收货地址(值对象)
// 说明:下单时会把会员地址快照到Delivery上,后续改地址不影响已有订单
type Address struct {
	City    string
	Street  string
	Zipcode string
}

// IsEmpty 判断地址是否为空
func (a Address) IsEmpty() bool {
	return a.City == "" && a.Street == "" && a.Zipcode == ""
}

// Member 会员实体（聚合根）
// DDD设计说明：
// 1. Member是会员聚合的根实体
// 2. 密码已加密存储（bcrypt），不暴露明文
// 3. IsAdmin是管理能力标记,订单取消的授权检查会用到
// 4. 领域实体不依赖GORM tag（infrastructure层的Repository负责映射）
type Member struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	Address   Address
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMember 创建新会员（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewMember(email, hashedPassword, nickname string, address Address) *Member {
	now := time.Now()
	return &Member{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateAddress 更新收货地址（领域行为）
func (m *Member) UpdateAddress(address Address) {
	m.Address = address
	m.UpdatedAt = time.Now()
}

// UpdateNickname 更新昵称（领域行为）
func (m *Member) UpdateNickname(nickname string) {
	m.Nickname = nickname
	m.UpdatedAt = time.Now()
}
