package dataset

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"urgentcast/internal/feature"
	"urgentcast/internal/models"
)

// PostgresConfig holds connection details for a Postgres-backed source.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"` // "disable", "require"
}

// PostgresSource loads the exception and productive-hours tables from
// PostgreSQL instead of CSV files.
type PostgresSource struct {
	db *sql.DB
}

func NewPostgresSource() *PostgresSource {
	return &PostgresSource{}
}

func (p *PostgresSource) Connect(config PostgresConfig) error {
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}

	p.db = db
	return nil
}

func (p *PostgresSource) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// LoadExceptions reads the exception table. Shift dates are normalized to the
// wire format and validated the same way the CSV path validates them.
func (p *PostgresSource) LoadExceptions(table string) ([]models.ExceptionRecord, error) {
	query := fmt.Sprintf(`SELECT %s::text, %s, %s FROM %s`,
		ColShiftDate, ColEarningCategory, ColJobFamily, table)

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ExceptionRecord
	line := 1
	for rows.Next() {
		var rec models.ExceptionRecord
		if err := rows.Scan(&rec.ShiftDate, &rec.EarningCategory, &rec.JobFamily); err != nil {
			return nil, err
		}
		rec.ShiftDate = truncateDate(rec.ShiftDate)
		if _, err := feature.ParseShiftDate(rec.ShiftDate); err != nil {
			return nil, &RowError{Table: table, Line: line, Err: err}
		}
		out = append(out, rec)
		line++
	}
	return out, rows.Err()
}

// LoadProductiveHours reads a productive-hours table with its hours summed
// from the given numeric column.
func (p *PostgresSource) LoadProductiveHours(table, hoursColumn string) ([]models.ProductiveHoursRecord, error) {
	query := fmt.Sprintf(`SELECT %s::text, %s, COALESCE(%s, 0) FROM %s`,
		ColShiftDate, ColJobFamilyDesc, hoursColumn, table)

	rows, err := p.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProductiveHoursRecord
	line := 1
	for rows.Next() {
		var rec models.ProductiveHoursRecord
		if err := rows.Scan(&rec.ShiftDate, &rec.JobFamilyDescription, &rec.Hours); err != nil {
			return nil, err
		}
		rec.ShiftDate = truncateDate(rec.ShiftDate)
		if _, err := feature.ParseShiftDate(rec.ShiftDate); err != nil {
			return nil, &RowError{Table: table, Line: line, Err: err}
		}
		out = append(out, rec)
		line++
	}
	return out, rows.Err()
}

// truncateDate strips a trailing time component from a date cast to text.
func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
