// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mccastellazzob/motoclub/internal/model"
	"github.com/mccastellazzob/motoclub/internal/testutil"
)

func TestEventService(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	require.NoError(t, svc.LogInfo(ctx, model.EventCategoryTranslation, "sync finished", map[string]any{"published": 3}))
	require.NoError(t, svc.LogError(ctx, model.EventCategoryContact, "mail failed", nil))

	events, err := svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	byMessage := map[string]string{}
	for _, e := range events {
		byMessage[e.Message] = e.Metadata
	}
	assert.JSONEq(t, `{"published":3}`, byMessage["sync finished"])
	assert.Equal(t, "{}", byMessage["mail failed"])

	_, err = db.Exec(`UPDATE events SET created_at = ? WHERE message = 'mail failed'`, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	n, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	events, err = svc.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "sync finished", events[0].Message)
}
