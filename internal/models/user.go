package models

import "time"

const (
	UserStatusDisabled = 0
	UserStatusActive   = 1
)

// User is an account allowed to log in. Password holds a bcrypt hash.
type User struct {
	UserID      int64     `gorm:"column:user_id;primaryKey;autoIncrement" json:"userId"`
	Nickname    string    `gorm:"column:nickname;size:64;not null;uniqueIndex" json:"nickname"`
	Password    string    `gorm:"column:password;size:255;not null" json:"-"`
	Status      int       `gorm:"column:status;not null" json:"status"`
	CreatedTime time.Time `gorm:"column:created_time;autoCreateTime" json:"createdTime"`
	UpdatedTime time.Time `gorm:"column:updated_time;autoUpdateTime" json:"updatedTime"`
}

func (User) TableName() string {
	return "t_user"
}

// Active reports whether the account may log in.
func (u *User) Active() bool {
	return u.Status == UserStatusActive
}
