package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	defaultListLimit = 100
	maxListLimit     = 500
)

const (
	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedOpenMigrationConnFmt    = "failed to open migration connection: %w"
	errFailedRunMigrationsFmt        = "failed to run migrations: %w"

	errFailedCreateFileFmt       = "failed to create file: %w"
	errFailedGetFileFmt          = "failed to get file: %w"
	errFailedListFilesFmt        = "failed to list files: %w"
	errFailedUpdateFileFmt       = "failed to update file: %w"
	errFailedDeleteFileFmt       = "failed to delete file: %w"
	errFailedCreateVersionFmt    = "failed to create file version: %w"
	errFailedGetVersionFmt       = "failed to get file version: %w"
	errFailedListVersionsFmt     = "failed to list file versions: %w"
	errFailedRestoreVersionFmt   = "failed to restore file version: %w"
	errFailedMarkVersionFinalFmt = "failed to mark file version final: %w"
	errFailedCreateShareFmt      = "failed to create file share: %w"
	errFailedGetShareFmt         = "failed to get file share: %w"
	errFailedListSharesFmt       = "failed to list file shares: %w"
	errFailedUpdateShareFmt      = "failed to update file share: %w"
	errFailedDeleteShareFmt      = "failed to delete file share: %w"
	errFailedGetFolderFmt        = "failed to get folder: %w"

	errFileNotFoundMsg    = "file not found"
	errVersionNotFoundMsg = "file version not found"
	errShareNotFoundMsg   = "file share not found"
	errFolderNotFoundMsg  = "folder not found"

	errDuplicateStoragePathMsg = "storage path already in use"
	errDuplicateShareTokenMsg  = "share token already in use"
)

var (
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedOpenMigrationConn    = func(err error) error { return fmt.Errorf(errFailedOpenMigrationConnFmt, err) }
	errFailedRunMigrations        = func(err error) error { return fmt.Errorf(errFailedRunMigrationsFmt, err) }

	errFailedCreateFile       = func(err error) error { return fmt.Errorf(errFailedCreateFileFmt, err) }
	errFailedGetFile          = func(err error) error { return fmt.Errorf(errFailedGetFileFmt, err) }
	errFailedListFiles        = func(err error) error { return fmt.Errorf(errFailedListFilesFmt, err) }
	errFailedUpdateFile       = func(err error) error { return fmt.Errorf(errFailedUpdateFileFmt, err) }
	errFailedDeleteFile       = func(err error) error { return fmt.Errorf(errFailedDeleteFileFmt, err) }
	errFailedCreateVersion    = func(err error) error { return fmt.Errorf(errFailedCreateVersionFmt, err) }
	errFailedGetVersion       = func(err error) error { return fmt.Errorf(errFailedGetVersionFmt, err) }
	errFailedListVersions     = func(err error) error { return fmt.Errorf(errFailedListVersionsFmt, err) }
	errFailedRestoreVersion   = func(err error) error { return fmt.Errorf(errFailedRestoreVersionFmt, err) }
	errFailedMarkVersionFinal = func(err error) error { return fmt.Errorf(errFailedMarkVersionFinalFmt, err) }
	errFailedCreateShare      = func(err error) error { return fmt.Errorf(errFailedCreateShareFmt, err) }
	errFailedGetShare         = func(err error) error { return fmt.Errorf(errFailedGetShareFmt, err) }
	errFailedListShares       = func(err error) error { return fmt.Errorf(errFailedListSharesFmt, err) }
	errFailedUpdateShare      = func(err error) error { return fmt.Errorf(errFailedUpdateShareFmt, err) }
	errFailedDeleteShare      = func(err error) error { return fmt.Errorf(errFailedDeleteShareFmt, err) }
	errFailedGetFolder        = func(err error) error { return fmt.Errorf(errFailedGetFolderFmt, err) }
)
