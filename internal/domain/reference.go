package domain

// UserRef 是外键引用：要么只有用户ID，要么携带已展开的用户记录。
// ID 始终有效，展开与否都不会被置空。
type UserRef struct {
	ID   int64
	User *User
}

// UserID 构造未展开的用户引用
func UserID(id int64) UserRef {
	return UserRef{ID: id}
}

// ExpandedUser 构造已展开的用户引用，u 为 nil 时退化为只有 ID 的引用
func ExpandedUser(id int64, u *User) UserRef {
	return UserRef{ID: id, User: u}
}

// Expanded 返回展开的用户记录
func (r UserRef) Expanded() (*User, bool) {
	return r.User, r.User != nil
}

// OrderRef 是订单外键引用，语义同 UserRef
type OrderRef struct {
	ID    int64
	Order *Order
}

// OrderID 构造未展开的订单引用
func OrderID(id int64) OrderRef {
	return OrderRef{ID: id}
}

// ExpandedOrder 构造已展开的订单引用，o 为 nil 时退化为只有 ID 的引用
func ExpandedOrder(id int64, o *Order) OrderRef {
	return OrderRef{ID: id, Order: o}
}

// Expanded 返回展开的订单记录
func (r OrderRef) Expanded() (*Order, bool) {
	return r.Order, r.Order != nil
}
