package writer

import "context"

// Multi writes every snapshot to each writer in order and stops at the first error.
func Multi(writers ...SnapshotWriter) SnapshotWriter {
	if len(writers) == 1 {
		return writers[0]
	}
	return SnapshotWriterFunc(func(ctx context.Context, s Snapshot) error {
		for _, w := range writers {
			if err := w.WriteSnapshot(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
}
