package model

type UserRole string

const (
	Pledge UserRole = "pledge"
	Member UserRole = "member"
	Admin  UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	DisplayName  string   `gorm:"size:100;not null" json:"displayName"`
	Email        string   `gorm:"size:100;unique;not null" json:"email"`
	Role         UserRole `gorm:"type:enum('pledge','member','admin');default:'member'" json:"role"`
	DeviceIDHash string   `gorm:"size:64;uniqueIndex;default:null" json:"-"`
	AvatarKey    string   `gorm:"size:255" json:"avatarKey"`
	StreakWeeks  int      `gorm:"default:0" json:"streakWeeks"` // 连续达标周数，由外部结算任务写入
}

func (User) TableName() string {
	return "users"
}

// LeaderboardScope 排行榜范围，边界层校验后才进入排序逻辑
type LeaderboardScope string

const (
	ScopeOverall LeaderboardScope = "overall"
	ScopePledge  LeaderboardScope = "pledge"
	ScopeMember  LeaderboardScope = "member"
)

// ParseLeaderboardScope 空字符串默认为 overall，非法取值返回 false
func ParseLeaderboardScope(s string) (LeaderboardScope, bool) {
	switch s {
	case "", string(ScopeOverall):
		return ScopeOverall, true
	case string(ScopePledge):
		return ScopePledge, true
	case string(ScopeMember):
		return ScopeMember, true
	default:
		return "", false
	}
}
