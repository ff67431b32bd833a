package postgres

import (
	"context"
	"fmt"

	"gridpay/internal/store"
)

// UpsertDevice inserts or fully replaces the device row keyed by user_id.
// There is no merge: every heartbeat overwrites all columns, including
// the internal id and last_seen supplied by the caller.
func (s *Store) UpsertDevice(ctx context.Context, device *store.Device) error {
	query := `
		INSERT INTO devices (id, user_id, url, cpu_cores, cpu_load, ram_total, ram_used, disk_free, status, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			id        = EXCLUDED.id,
			url       = EXCLUDED.url,
			cpu_cores = EXCLUDED.cpu_cores,
			cpu_load  = EXCLUDED.cpu_load,
			ram_total = EXCLUDED.ram_total,
			ram_used  = EXCLUDED.ram_used,
			disk_free = EXCLUDED.disk_free,
			status    = EXCLUDED.status,
			last_seen = EXCLUDED.last_seen
	`

	_, err := s.db.ExecContext(ctx, query,
		device.ID,
		device.UserID,
		device.URL,
		device.CPUCores,
		device.CPULoad,
		device.RAMTotal,
		device.RAMUsed,
		device.DiskFree,
		device.Status,
		device.LastSeen,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert device for %s: %w", device.UserID, err)
	}
	return nil
}

// ListActiveDevices returns all devices currently in status ACTIVE.
func (s *Store) ListActiveDevices(ctx context.Context) ([]store.Device, error) {
	query := `
		SELECT id, user_id, url, cpu_cores, cpu_load, ram_total, ram_used, disk_free, status, last_seen
		FROM devices
		WHERE status = $1
		ORDER BY last_seen DESC
	`

	rows, err := s.db.QueryContext(ctx, query, store.DeviceStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active devices: %w", err)
	}
	defer rows.Close()

	var devices []store.Device
	for rows.Next() {
		var d store.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.URL, &d.CPUCores, &d.CPULoad, &d.RAMTotal, &d.RAMUsed, &d.DiskFree, &d.Status, &d.LastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}

	return devices, rows.Err()
}

// SetDeviceStatus updates the status of the device owned by userID.
// A userID without a device row is a no-op, not an error: jobs may be
// submitted to devices that have not heartbeated yet.
func (s *Store) SetDeviceStatus(ctx context.Context, tx store.DBTransaction, userID string, status store.DeviceStatus) error {
	executor := s.getExecutor(tx)

	_, err := executor.ExecContext(ctx,
		"UPDATE devices SET status = $1 WHERE user_id = $2",
		status, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set device status for %s: %w", userID, err)
	}
	return nil
}
