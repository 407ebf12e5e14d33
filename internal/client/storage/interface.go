// Package storage provides the client's durable local state: a small
// key/value store over sqlite that holds the persisted credential pair.
package storage

import "context"

// Repository is a string key/value store. Get returns ("", nil) for a
// missing key so callers can treat absence as "no value" without error
// plumbing.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
