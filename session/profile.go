package session

// Profile is the user record returned by the identity backend on login.
type Profile struct {
	ID            int64    `json:"id"`
	Username      string   `json:"username"`
	Nickname      string   `json:"nickname,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Sex           string   `json:"sex,omitempty"`
	Avatar        string   `json:"avatar,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	Permissions   []string `json:"permissions,omitempty"`
	LastLoginTime string   `json:"lastLoginTime,omitempty"`
	LastLoginIP   string   `json:"lastLoginIp,omitempty"`
}
