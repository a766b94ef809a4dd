package item

import "errors"

var (
	ErrItemNotFound         = errors.New("item not found")
	ErrInvalidCategory      = errors.New("referenced category does not exist")
	ErrItemHasBookings      = errors.New("item is referenced by bookings")
	ErrUnsupportedImageType = errors.New("unsupported image type")
)
