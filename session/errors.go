package session

import (
	"errors"
	"fmt"
)

var ErrInvalidID = errors.New("session: session id must be non-empty and at most 450 bytes")

// ConfigError 表示构造存储时的选项错误
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("session: invalid option %s: %s", e.Option, e.Reason)
}

func newConfigError(option, reason string) error {
	return &ConfigError{Option: option, Reason: reason}
}

// NewConfigError 供各存储实现报告自身特有的选项错误
func NewConfigError(option, reason string) error {
	return newConfigError(option, reason)
}

// StorageError 包装底层存储返回的任何错误
type StorageError struct {
	Op  string
	ID  string
	Err error
}

func (e *StorageError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("session: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("session: %s %q failed: %v", e.Op, e.ID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError 包装底层错误，err 为 nil 时返回 nil
func NewStorageError(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, ID: id, Err: err}
}

// DeserializationError 表示存储中的会话数据无法解码，原记录保持不变
type DeserializationError struct {
	ID  string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("session: cannot decode data of session %q: %v", e.ID, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

func IsStorageError(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

func IsDeserializationError(err error) bool {
	var target *DeserializationError
	return errors.As(err, &target)
}
