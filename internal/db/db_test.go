package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnect_InvalidURL(t *testing.T) {
	db, err := Connect(context.Background(), "postgres://%zz", 0)
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to connect to database")
}

func TestClose_NilSafe(t *testing.T) {
	var db *DB
	assert.NotPanics(t, db.Close)
	assert.NotPanics(t, (&DB{}).Close)
}
