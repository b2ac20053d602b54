package invoice

import "errors"

var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrNoSubjects       = errors.New("invoice request has no employees")
	ErrTemplateRequired = errors.New("invoice request has no template items")
)
