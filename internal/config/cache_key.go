package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamPayloadKey returns the cache key for an exam's delivery payload
// (the shuffled question list as handed to the client).
func (r *CacheKeyStruct) ExamPayloadKey(examID int64) string {
	return fmt.Sprintf("exam:%d:payload", examID)
}

var CacheKey = NewCacheKeyStruct()
