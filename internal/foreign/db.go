package foreign

import (
	"database/sql"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"hexi/internal/object"
)

// dbConn is the resource kept behind a db handle. tx is set between begin
// and commit/rollback, and routes query and exec through the transaction.
type dbConn struct {
	db *sql.DB
	tx *sql.Tx
}

func (c *dbConn) Close() error {
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return c.db.Close()
}

func (c *dbConn) query(query string, params ...interface{}) (*sql.Rows, error) {
	if c.tx != nil {
		return c.tx.Query(query, params...)
	}
	return c.db.Query(query, params...)
}

func (c *dbConn) exec(query string, params ...interface{}) (sql.Result, error) {
	if c.tx != nil {
		return c.tx.Exec(query, params...)
	}
	return c.db.Exec(query, params...)
}

func unpackConn(ctx object.EvaluatorContext, arg object.Object) (*dbConn, error) {
	_, res, err := unpackHandle(ctx, arg)
	if err != nil {
		return nil, err
	}
	conn, ok := res.(*dbConn)
	if !ok {
		return nil, object.NewError("invalid connection handle")
	}
	return conn, nil
}

// statementArgs unpacks the connection, the sql text and the bind
// parameters shared by query and exec.
func statementArgs(ctx object.EvaluatorContext, name string, args []object.Object) (*dbConn, string, []interface{}, error) {
	if len(args) < 2 {
		return nil, "", nil, object.NewError("%s expects at least 2 arguments: connection, sql", name)
	}
	conn, err := unpackConn(ctx, args[0])
	if err != nil {
		return nil, "", nil, err
	}
	query, err := unpackString(args[1], "sql")
	if err != nil {
		return nil, "", nil, err
	}

	params := make([]interface{}, len(args)-2)
	for i := 2; i < len(args); i++ {
		params[i-2] = toNative(args[i])
	}
	return conn, query, params, nil
}

func fnDbConnect() *object.Foreign {
	return &object.Foreign{
		Name: "connect",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if len(args) != 2 {
				return nil, object.NewError("connect expects 2 arguments: connectionString, driver")
			}
			connStr, err := unpackString(args[0], "connectionString")
			if err != nil {
				return nil, err
			}
			driver, err := unpackString(args[1], "driver")
			if err != nil {
				return nil, err
			}

			db, err := sql.Open(driver, connStr)
			if err != nil {
				return nil, object.NewError("failed to open connection: %s", err)
			}
			if err := db.Ping(); err != nil {
				db.Close()
				return nil, object.NewError("failed to ping database: %s", err)
			}

			id := ctx.StoreHandle(&dbConn{db: db})
			slog.Debug("database connected", slog.String("driver", driver), slog.Int64("handle", id))
			return &object.Number{Value: float64(id)}, nil
		},
	}
}

func fnDbQuery() *object.Foreign {
	return &object.Foreign{
		Name: "query",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			conn, query, params, err := statementArgs(ctx, "query", args)
			if err != nil {
				return nil, err
			}

			rows, err := conn.query(query, params...)
			if err != nil {
				return nil, object.NewError("query failed: %s", err)
			}
			defer rows.Close()

			return renderRows(rows)
		},
	}
}

func fnDbExec() *object.Foreign {
	return &object.Foreign{
		Name: "exec",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			conn, query, params, err := statementArgs(ctx, "exec", args)
			if err != nil {
				return nil, err
			}

			result, err := conn.exec(query, params...)
			if err != nil {
				return nil, object.NewError("exec failed: %s", err)
			}

			affected, _ := result.RowsAffected()
			lastID, _ := result.LastInsertId()

			res := object.NewCollection()
			res.Insert(object.StringKeyOf("rowsAffected"), &object.Number{Value: float64(affected)})
			res.Insert(object.StringKeyOf("lastInsertId"), &object.Number{Value: float64(lastID)})
			return res, nil
		},
	}
}

func fnDbBegin() *object.Foreign {
	return &object.Foreign{
		Name: "begin",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, object.NewError("begin expects 1 argument: connection")
			}
			conn, err := unpackConn(ctx, args[0])
			if err != nil {
				return nil, err
			}
			if conn.tx != nil {
				return nil, object.NewError("transaction already in progress")
			}

			tx, err := conn.db.Begin()
			if err != nil {
				return nil, object.NewError("failed to begin transaction: %s", err)
			}
			conn.tx = tx
			return args[0], nil
		},
	}
}

func fnDbCommit() *object.Foreign {
	return &object.Foreign{
		Name: "commit",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			return finishTx(ctx, "commit", args, (*sql.Tx).Commit)
		},
	}
}

func fnDbRollback() *object.Foreign {
	return &object.Foreign{
		Name: "rollback",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			return finishTx(ctx, "rollback", args, (*sql.Tx).Rollback)
		},
	}
}

func finishTx(ctx object.EvaluatorContext, name string, args []object.Object, finish func(*sql.Tx) error) (object.Object, error) {
	if len(args) != 1 {
		return nil, object.NewError("%s expects 1 argument: connection", name)
	}
	conn, err := unpackConn(ctx, args[0])
	if err != nil {
		return nil, err
	}
	if conn.tx == nil {
		return nil, object.NewError("invalid transaction handle")
	}

	tx := conn.tx
	conn.tx = nil
	if err := finish(tx); err != nil {
		return nil, object.NewError("failed to %s transaction: %s", name, err)
	}
	return args[0], nil
}

func fnDbClose() *object.Foreign {
	return &object.Foreign{
		Name: "close",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, object.NewError("close expects 1 argument: connection")
			}
			id, res, err := unpackHandle(ctx, args[0])
			if err != nil {
				return nil, err
			}
			if _, ok := res.(*dbConn); !ok {
				return nil, object.NewError("invalid connection handle")
			}
			if err := ctx.ReleaseHandle(id); err != nil {
				return nil, object.NewError("failed to close connection: %s", err)
			}
			return object.NIL, nil
		},
	}
}

// renderRows collects every row as a collection keyed by column name.
func renderRows(rows *sql.Rows) (object.Object, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, object.NewError("query failed: %s", err)
	}
	types, _ := rows.ColumnTypes()

	result := object.NewArray()
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, object.NewError("query failed: %s", err)
		}

		row := object.NewCollection()
		for i, col := range columns {
			var typeName string
			if i < len(types) {
				typeName = types[i].DatabaseTypeName()
			}
			row.Insert(object.StringKeyOf(col), mapValue(values[i], typeName))
		}
		result.Push(row)
	}
	if err := rows.Err(); err != nil {
		return nil, object.NewError("query failed: %s", err)
	}
	return result, nil
}

// mapValue converts a scanned column. Drivers hand back numeric columns as
// []byte for some types, so decimal columns are parsed before falling back
// to text.
func mapValue(v interface{}, dbType string) object.Object {
	if b, ok := v.([]byte); ok {
		switch dbType {
		case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "REAL":
			if n, err := parseNumber(string(b)); err == nil {
				return &object.Number{Value: n}
			}
		}
		return &object.String{Value: string(b)}
	}
	return fromNative(v)
}
