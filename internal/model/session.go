package model

import "time"

// Session はヨガセッションを表す。
type Session struct {
	ID          string
	Name        string
	Date        time.Time
	Description string
	TeacherID   string
	// UserIDs は参加者のユーザーID一覧。同一ユーザーは高々1回のみ含まれる。
	UserIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasParticipant は指定ユーザーが参加者に含まれるかを返す。
func (s *Session) HasParticipant(userID string) bool {
	for _, id := range s.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
