package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSQL(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"SELECT name, salary FROM employees ORDER BY salary DESC", true},
		{"select * from sales;", true},
		{"WITH t AS (SELECT 1) SELECT * FROM t", true},
		{"SELECT updated_at, deleted FROM audit", true},
		{"DROP TABLE employees", false},
		{"delete from sales", false},
		{"SELECT 1; DROP TABLE x", false},
		{"SELECT 1; SELECT 2", false},
		{"  ", false},
		{"UPDATE employees SET salary = 0", false},
		{"insert into t values (1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSQL(tt.query))
		})
	}
}
