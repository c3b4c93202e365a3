package pkg

import "errors"

type ErrKind string

const (
	KindNotFound     ErrKind = "not_found"
	KindForbidden    ErrKind = "forbidden"
	KindConflict     ErrKind = "conflict"
	KindInvalidInput ErrKind = "invalid_input"
	KindUnauthorized ErrKind = "unauthorized"
)

// Error 业务错误：Kind 决定 HTTP 状态码，Code 供前端判断
type Error struct {
	Kind ErrKind
	Code string
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is 按 Code 比较，WithMsg 得到的副本仍能被 errors.Is 命中
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) WithMsg(msg string) *Error {
	cp := *e
	cp.Msg = msg
	return &cp
}

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func newError(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

var (
	ErrClubNotFound    = newError(KindNotFound, "club_not_found", "club not found")
	ErrUserNotFound    = newError(KindNotFound, "user_not_found", "user not found")
	ErrNewsNotFound    = newError(KindNotFound, "news_not_found", "news not found")
	ErrEventNotFound   = newError(KindNotFound, "event_not_found", "event not found")
	ErrRequestNotFound = newError(KindNotFound, "request_not_found", "join request not found")

	ErrForbidden = newError(KindForbidden, "forbidden", "permission denied")

	ErrAlreadyMember    = newError(KindConflict, "already_member", "already a member of this club")
	ErrAlreadyRequested = newError(KindConflict, "already_requested", "join request already sent")
	ErrAlreadyFavorited = newError(KindConflict, "already_favorited", "news already in favorites")
	ErrTooManyLeaders   = newError(KindConflict, "too_many_leaders", "a club can have at most 3 leaders")
	ErrEmailTaken       = newError(KindConflict, "email_taken", "email already registered")

	ErrCannotRemoveLeader = newError(KindInvalidInput, "cannot_remove_leader", "leaders cannot be removed from the club")
	ErrNotAMember         = newError(KindInvalidInput, "not_a_member", "user is not a member of this club")
	ErrInvalidTarget      = newError(KindInvalidInput, "invalid_target", "admin users cannot join clubs")
	ErrAdminCannotLead    = newError(KindInvalidInput, "admin_cannot_lead", "admin users cannot lead a club")
	ErrInvalidInput       = newError(KindInvalidInput, "invalid_input", "invalid params")
	// 负责人邮箱无法解析属于输入错误，Code 与 ErrUserNotFound 相同
	ErrUnknownLeader = newError(KindInvalidInput, "user_not_found", "leader email not registered")

	ErrInvalidCredentials = newError(KindUnauthorized, "invalid_credentials", "invalid email or password")
	ErrInvalidToken       = newError(KindUnauthorized, "invalid_token", "invalid or expired token")
)
