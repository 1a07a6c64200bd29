package model

// Learner 学员，身份提供方的 subject 首次出现时建档
// swagger:model Learner
type Learner struct {
	UUIDBase
	IdentitySubject string `gorm:"size:191;uniqueIndex;not null" json:"-"`
	Fullname        string `gorm:"size:100" json:"fullname"`
	Username        string `gorm:"size:100;index" json:"username"`
	Email           string `gorm:"size:191;index" json:"email"`
	ProfileImage    string `gorm:"size:500" json:"profileImage"`
}

func (Learner) TableName() string {
	return "learners"
}

// Snapshot 证书签发时冻结的学员展示字段
func (l *Learner) Snapshot() LearnerSnapshot {
	return LearnerSnapshot{
		Fullname:     l.Fullname,
		Username:     l.Username,
		Email:        l.Email,
		ProfileImage: l.ProfileImage,
	}
}
