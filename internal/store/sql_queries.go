// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Keisuke Nagano

package store

const (
	addEntry = `
		INSERT INTO meal_entries (
			id,
			date,
			time,
			meal_type,
			menu,
			photo,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?);`

	putEntry = `
		INSERT INTO meal_entries (
			id,
			date,
			time,
			meal_type,
			menu,
			photo,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			date       = excluded.date,
			time       = excluded.time,
			meal_type  = excluded.meal_type,
			menu       = excluded.menu,
			photo      = excluded.photo,
			created_at = excluded.created_at;`

	getEntry = `
		SELECT
			id,
			date,
			time,
			meal_type,
			menu,
			photo,
			created_at
		FROM meal_entries
		WHERE id = ?;`

	deleteEntry = `
		DELETE FROM meal_entries
		WHERE id = ?;`

	// Entries without a time sort as midnight of their date.
	listAllEntries = `
		SELECT
			id,
			date,
			time,
			meal_type,
			menu,
			photo,
			created_at
		FROM meal_entries
		ORDER BY date DESC, COALESCE(time, '00:00') DESC, created_at DESC;`

	clearEntries = `DELETE FROM meal_entries;`
)
