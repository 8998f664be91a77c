package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

var ErrorInsufficientBalance = errors.New("insufficient wallet balance")
