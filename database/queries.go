package db

// TablesQuery returns every base table in the public schema with its columns as a
// JSON array ordered by ordinal position. spatial_ref_sys is PostGIS bookkeeping.
const TablesQuery = `
SELECT
  t.table_name,
  json_agg(
    json_build_object(
      'column', c.column_name,
      'type', c.data_type,
      'nullable', c.is_nullable,
      'is_pk', CASE WHEN tc.constraint_type = 'PRIMARY KEY' THEN true ELSE false END
    ) ORDER BY c.ordinal_position
  ) as columns
FROM information_schema.tables t
JOIN information_schema.columns c ON t.table_name = c.table_name
LEFT JOIN information_schema.key_column_usage kcu
  ON c.table_name = kcu.table_name AND c.column_name = kcu.column_name
LEFT JOIN information_schema.table_constraints tc
  ON kcu.constraint_name = tc.constraint_name AND tc.constraint_type = 'PRIMARY KEY'
WHERE t.table_schema = 'public'
  AND t.table_type = 'BASE TABLE'
  AND t.table_name NOT IN ('spatial_ref_sys')
GROUP BY t.table_name
ORDER BY t.table_name;
`

// RelationshipsQuery returns one row per foreign-key edge in the public schema.
const RelationshipsQuery = `
SELECT DISTINCT
  tc.table_name as from_table,
  ccu.table_name as to_table,
  kcu.column_name as from_column
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON tc.constraint_name = kcu.constraint_name
JOIN information_schema.constraint_column_usage ccu
  ON ccu.constraint_name = tc.constraint_name
WHERE tc.constraint_type = 'FOREIGN KEY'
  AND tc.table_schema = 'public'
ORDER BY tc.table_name, ccu.table_name;
`
