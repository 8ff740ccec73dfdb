package service

import "GreenArmy/internal/model"

// CanDeleteEvent 组织者或管理员可以删除活动
func CanDeleteEvent(caller model.Caller, ev *model.Event) bool {
	if caller.IsAnonymous() || ev == nil {
		return false
	}
	return caller.UserID == ev.OrganizerID || caller.IsAdmin()
}

// CanPostActivity 只有组织者可以发布动态，管理员也不行
func CanPostActivity(caller model.Caller, ev *model.Event) bool {
	if caller.IsAnonymous() || ev == nil {
		return false
	}
	return caller.UserID == ev.OrganizerID
}
