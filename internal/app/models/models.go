// Package models holds persistence rows and normalized records shared by the
// repositories, services and presentation layer.
package models
