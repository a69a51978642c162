package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrCategoryNotFound   = errors.New("板块不存在")
	ErrCategoryExist      = errors.New("板块已存在")
	ErrCategoryInactive   = errors.New("板块已停用")
	ErrTopicNotFound      = errors.New("主题不存在")
	ErrTopicDeleted       = errors.New("主题已被删除")
	ErrTopicLocked        = errors.New("主题已锁定")
	ErrPostNotFound       = errors.New("回帖不存在")
	ErrPostDeleted        = errors.New("回帖已被删除")
	ErrParentNotFound     = errors.New("父级回帖不存在")
	ErrParentMismatch     = errors.New("父级回帖不属于该主题")
	ErrNotBestAnswer      = errors.New("该回帖不是当前最佳回答")
	ErrBestAnswerDeleted  = errors.New("已删除的回帖不能设为最佳回答")
	ErrActionDuplicate    = errors.New("重复操作")
	ErrSearchUnavailable  = errors.New("检索服务暂不可用")
	UnauthorizedError     = errors.New("权限不足")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:      BadRequest,
	ErrCategoryNotFound:  NotFound,
	ErrCategoryExist:     BadRequest,
	ErrCategoryInactive:  Conflict,
	ErrTopicNotFound:     NotFound,
	ErrTopicDeleted:      Conflict,
	ErrTopicLocked:       Conflict,
	ErrPostNotFound:      NotFound,
	ErrPostDeleted:       Conflict,
	ErrParentNotFound:    NotFound,
	ErrParentMismatch:    BadRequest,
	ErrNotBestAnswer:     Conflict,
	ErrBestAnswerDeleted: Conflict,
	ErrActionDuplicate:   BadRequest,
	ErrSearchUnavailable: InternalServerError,
	UnauthorizedError:    Forbidden,
	UnExpectedError:      InternalServerError,
}
