package storagelog

import (
	"go.uber.org/zap"
)

// headMsg is a distinctive part of all messages.
const headMsg = "local object storage operation"

// Write writes message about segment store operation to logger.
func Write(logger *zap.Logger, fields ...zap.Field) {
	logger.Debug(headMsg, fields...)
}

// PathField returns logger's field for canonical object path.
func PathField(path string) zap.Field {
	return zap.String("path", path)
}

// OpField returns logger's field for operation type.
func OpField(op string) zap.Field {
	return zap.String("op", op)
}

// StorageTypeField returns logger's field for storage type.
func StorageTypeField(typ string) zap.Field {
	return zap.String("type", typ)
}

// RangeField returns logger's field for a byte range inside the container.
func RangeField(from, to uint64) zap.Field {
	return zap.Uint64s("range", []uint64{from, to})
}
