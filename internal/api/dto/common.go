package dto

// Response 统一响应封装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageReq 通用分页参数
type PageReq struct {
	Page     int `form:"page,default=1" validate:"min=1"`
	PageSize int `form:"page_size,default=20" validate:"min=1,max=100"`
}

// Offset 计算分页偏移
func (p *PageReq) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageDTO 通用分页响应
type PageDTO struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}
