// Package migrations holds the shop schema. Each file registers its steps
// with migration.Register from init, so importing this package is enough to
// make them visible to the migrate commands.
package migrations
