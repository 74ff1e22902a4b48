package pipeline

import (
	"fmt"
	"strings"
)

// Args 收集编译过程中遇到的参数并分配 $1、$2 … 编号
type Args struct {
	vals []any
}

func (a *Args) add(v any) string {
	a.vals = append(a.vals, v)
	return fmt.Sprintf("$%d", len(a.vals))
}

type Cond interface {
	compile(args *Args) string
}

type binaryCond struct {
	col string
	op  string
	val any
}

func (c *binaryCond) compile(args *Args) string {
	return fmt.Sprintf("%s %s %s", c.col, c.op, args.add(c.val))
}

func Eq(col string, val any) Cond {
	return &binaryCond{col: col, op: "=", val: val}
}

func Gte(col string, val any) Cond {
	return &binaryCond{col: col, op: ">=", val: val}
}

func Lte(col string, val any) Cond {
	return &binaryCond{col: col, op: "<=", val: val}
}

type inCond struct {
	col string
	val any // 数组参数
}

func (c *inCond) compile(args *Args) string {
	return fmt.Sprintf("%s = ANY(%s)", c.col, args.add(c.val))
}

// In 对应 Mongo 的 $in，val 必须是数组/切片
func In(col string, val any) Cond {
	return &inCond{col: col, val: val}
}

type containsCond struct {
	col    string
	substr string
}

func (c *containsCond) compile(args *Args) string {
	return fmt.Sprintf("%s ILIKE '%%' || %s || '%%'", c.col, args.add(c.substr))
}

// Contains 不区分大小写的子串匹配，对应原来的 $regex 过滤
func Contains(col string, substr string) Cond {
	return &containsCond{col: col, substr: substr}
}

type overlapCond struct {
	col  string
	vals []string
}

func (c *overlapCond) compile(args *Args) string {
	return fmt.Sprintf("%s && %s", c.col, args.add(c.vals))
}

// Overlap 判断数组列与给定集合是否有交集，对应多值列上的 $in
func Overlap(col string, vals []string) Cond {
	return &overlapCond{col: col, vals: vals}
}

type rawCond struct {
	sql  string
	vals []any
}

func (c *rawCond) compile(args *Args) string {
	sql := c.sql
	for _, v := range c.vals {
		sql = strings.Replace(sql, "?", args.add(v), 1)
	}
	return sql
}

// Raw 用于子查询等无法用上面的构造器表达的条件，? 会按顺序替换为编号占位符
func Raw(sql string, vals ...any) Cond {
	return &rawCond{sql: sql, vals: vals}
}
