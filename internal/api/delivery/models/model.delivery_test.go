package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriberMatches(t *testing.T) {
	sub := Subscriber{Active: true, Topics: []string{"events", "planning:cancelled"}}

	// Topic theo resource khớp mọi action
	assert.True(t, sub.Matches("events:cancelled"))
	assert.True(t, sub.Matches("events:lock"))

	// Topic đầy đủ chỉ khớp đúng tên
	assert.True(t, sub.Matches("planning:cancelled"))
	assert.False(t, sub.Matches("planning:updated"))

	// Không khớp prefix giữa chừng
	assert.False(t, sub.Matches("eventshistory:updated"))

	// Topics rỗng nhận tất cả
	all := Subscriber{Active: true}
	assert.True(t, all.Matches("assignments:completed"))

	// Subscriber inactive không nhận gì
	inactive := Subscriber{Active: false}
	assert.False(t, inactive.Matches("events:created"))
}
