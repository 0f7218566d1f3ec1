// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolRun(t *testing.T) {
	tests := []struct {
		name      string
		functions int
		failAt    int // -1 for no failure
		wantErr   bool
	}{
		{
			name:      "all jobs succeed",
			functions: 10,
			failAt:    -1,
			wantErr:   false,
		},
		{
			name:      "one job fails",
			functions: 10,
			failAt:    4,
			wantErr:   true,
		},
		{
			name:      "no jobs",
			functions: 0,
			failAt:    -1,
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewWorkerPool(3)
			var ran atomic.Int32

			fns := make([]func() error, tt.functions)
			for i := range fns {
				fails := i == tt.failAt
				fns[i] = func() error {
					ran.Add(1)
					if fails {
						return errors.New("job failed")
					}
					return nil
				}
			}

			err := pool.Run(context.Background(), fns...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int32(tt.functions), ran.Load())
			}
		})
	}
}

func TestWorkerPoolRunAllCollectsErrors(t *testing.T) {
	pool := NewWorkerPool(2)
	var ran atomic.Int32

	fns := []func() error{
		func() error { ran.Add(1); return errors.New("first") },
		func() error { ran.Add(1); return nil },
		func() error { ran.Add(1); return errors.New("second") },
	}

	errs := pool.RunAll(context.Background(), fns...)

	assert.Len(t, errs, 2)
	assert.Equal(t, int32(3), ran.Load(), "a failing job must not stop the others")
}

func TestWorkerPoolMinimumWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	err := pool.Run(context.Background(), func() error { return nil })
	assert.NoError(t, err)
}
