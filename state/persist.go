package state

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// tutorialKey is the single namespaced entry holding tutorial progress.
const tutorialKey = "wissensbilanz:tutorial"

// TutorialProgress is the persisted subset of the state: which tutorial
// learnings were viewed and whether tutorial mode was active.
type TutorialProgress struct {
	ViewedLearnings []string `json:"viewedLearnings"`
	TutorialMode    bool     `json:"tutorialMode"`
}

// Persister stores tutorial progress across sessions.
type Persister interface {
	Load() (TutorialProgress, error)
	Save(progress TutorialProgress) error
}

// RedisPersister keeps tutorial progress in Redis under one key.
type RedisPersister struct {
	client  *redis.Client
	timeout time.Duration
}

// NewRedisPersister wraps an existing Redis client.
func NewRedisPersister(client *redis.Client, timeout time.Duration) *RedisPersister {
	return &RedisPersister{client: client, timeout: timeout}
}

// Load reads the stored progress. A missing key yields the zero
// progress, not an error.
func (p *RedisPersister) Load() (TutorialProgress, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	var progress TutorialProgress
	data, err := p.client.Get(ctx, tutorialKey).Result()
	if err == redis.Nil {
		return progress, nil
	}
	if err != nil {
		return progress, err
	}
	if err := json.Unmarshal([]byte(data), &progress); err != nil {
		return TutorialProgress{}, err
	}
	return progress, nil
}

// Save writes the progress, replacing any previous value.
func (p *RedisPersister) Save(progress TutorialProgress) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, tutorialKey, data, 0).Err()
}
