package dto

import (
	"time"

	"github.com/mrinalkantikolay/zomato-clone-sub001/internal/domain"
)

// UserView 用户视图，不含密码哈希
type UserView struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ToUserView 映射单个用户
func ToUserView(u *domain.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserViews 映射用户列表
func ToUserViews(users []*domain.User) []UserView {
	return mapAll(users, ToUserView)
}

// ToUserPage 映射用户分页
func ToUserPage(page domain.Page[*domain.User]) PageView[UserView] {
	return mapPage(page, ToUserView)
}
