package common

import (
	"errors"

	"comercia/domain"
)

func IsRecordNotFound(err error) bool {
	return errors.Is(err, domain.ErrRecordNotFound)
}

func IsDetailError(err error) (*domain.DetailedError, bool) {
	var de *domain.DetailedError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
