// Package storage provides the object-storage client used to publish build
// artifacts. It wraps the Minio S3-compatible client behind a narrow
// interface so commands and tests do not depend on the SDK directly.
package storage
