package foreign

import (
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"

	"hexi/internal/object"
)

func unpackStore(ctx object.EvaluatorContext, arg object.Object) (int64, *bolt.DB, error) {
	id, res, err := unpackHandle(ctx, arg)
	if err != nil {
		return 0, nil, err
	}
	db, ok := res.(*bolt.DB)
	if !ok {
		return 0, nil, object.NewError("invalid store handle")
	}
	return id, db, nil
}

// kvArgs unpacks a store handle followed by n string arguments.
func kvArgs(ctx object.EvaluatorContext, name string, args []object.Object, names ...string) (*bolt.DB, []string, error) {
	if err := checkArgs(name, args, len(names)+1); err != nil {
		return nil, nil, err
	}
	_, db, err := unpackStore(ctx, args[0])
	if err != nil {
		return nil, nil, err
	}
	out := make([]string, len(names))
	for i, argName := range names {
		s, err := unpackString(args[i+1], argName)
		if err != nil {
			return nil, nil, err
		}
		out[i] = s
	}
	return db, out, nil
}

func fnKvOpen() *object.Foreign {
	return &object.Foreign{
		Name: "open",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if err := checkArgs("kv::open", args, 1); err != nil {
				return nil, err
			}
			path, err := unpackString(args[0], "path")
			if err != nil {
				return nil, err
			}

			db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
			if err != nil {
				return nil, object.NewError("failed to open store: %s", err)
			}
			id := ctx.StoreHandle(db)
			slog.Debug("store opened", slog.String("path", path), slog.Int64("handle", id))
			return &object.Number{Value: float64(id)}, nil
		},
	}
}

func fnKvPut() *object.Foreign {
	return &object.Foreign{
		Name: "put",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			db, s, err := kvArgs(ctx, "kv::put", args, "bucket", "key", "value")
			if err != nil {
				return nil, err
			}

			err = db.Update(func(tx *bolt.Tx) error {
				b, err := tx.CreateBucketIfNotExists([]byte(s[0]))
				if err != nil {
					return err
				}
				return b.Put([]byte(s[1]), []byte(s[2]))
			})
			if err != nil {
				return nil, object.NewError("kv::put failed: %s", err)
			}
			return object.NIL, nil
		},
	}
}

// fnKvGet returns nil for a missing bucket or key.
func fnKvGet() *object.Foreign {
	return &object.Foreign{
		Name: "get",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			db, s, err := kvArgs(ctx, "kv::get", args, "bucket", "key")
			if err != nil {
				return nil, err
			}

			var result object.Object = object.NIL
			err = db.View(func(tx *bolt.Tx) error {
				b := tx.Bucket([]byte(s[0]))
				if b == nil {
					return nil
				}
				if v := b.Get([]byte(s[1])); v != nil {
					result = &object.String{Value: string(v)}
				}
				return nil
			})
			if err != nil {
				return nil, object.NewError("kv::get failed: %s", err)
			}
			return result, nil
		},
	}
}

func fnKvDelete() *object.Foreign {
	return &object.Foreign{
		Name: "delete",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			db, s, err := kvArgs(ctx, "kv::delete", args, "bucket", "key")
			if err != nil {
				return nil, err
			}

			err = db.Update(func(tx *bolt.Tx) error {
				b := tx.Bucket([]byte(s[0]))
				if b == nil {
					return nil
				}
				return b.Delete([]byte(s[1]))
			})
			if err != nil {
				return nil, object.NewError("kv::delete failed: %s", err)
			}
			return object.NIL, nil
		},
	}
}

// fnKvKeys lists the keys of a bucket in byte order.
func fnKvKeys() *object.Foreign {
	return &object.Foreign{
		Name: "keys",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			db, s, err := kvArgs(ctx, "kv::keys", args, "bucket")
			if err != nil {
				return nil, err
			}

			keys := object.NewArray()
			err = db.View(func(tx *bolt.Tx) error {
				b := tx.Bucket([]byte(s[0]))
				if b == nil {
					return nil
				}
				return b.ForEach(func(k, _ []byte) error {
					keys.Push(&object.String{Value: string(k)})
					return nil
				})
			})
			if err != nil {
				return nil, object.NewError("kv::keys failed: %s", err)
			}
			return keys, nil
		},
	}
}

func fnKvClose() *object.Foreign {
	return &object.Foreign{
		Name: "close",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if err := checkArgs("kv::close", args, 1); err != nil {
				return nil, err
			}
			id, _, err := unpackStore(ctx, args[0])
			if err != nil {
				return nil, err
			}
			if err := ctx.ReleaseHandle(id); err != nil {
				return nil, object.NewError("failed to close store: %s", err)
			}
			return object.NIL, nil
		},
	}
}
