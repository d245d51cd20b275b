package request

import "strings"

// ByIDRequest binds the :id path parameter shared by the single-resource routes.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams holds the paging and ordering query parameters shared by list endpoints.
type ListParams struct {
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// Order returns the sort direction in the form the repositories put into ORDER BY.
func (p ListParams) Order() string {
	return strings.ToUpper(p.SortOrder)
}
