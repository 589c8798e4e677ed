// Package gormstore implements the session, user, and task stores on a SQL
// database through gorm.
//
// The *gorm.DB is acquired lazily through a shared conn.Lazy handle: the
// first store call opens, pings and migrates the database within its own
// context, later calls reuse it. Calls arriving during that open wait no
// longer than their context allows. A failed or timed-out open is reported
// as store.ErrUnavailable and retried by the next call, never inline.
package gormstore
