// pipeline 把 match → join → unwind → group → sort → limit → project
// 形式的聚合管道编译为一条带编号占位符的 SQL 语句。
// 各阶段的语义与调用顺序无关，编译时按固定的 SQL 子句顺序组装
package pipeline

import (
	"fmt"
	"strings"
)

type Pipeline struct {
	from       string
	joins      []string
	conds      []Cond
	groups     []string
	sorts      []string
	projection []string
	skip       int64
	limit      int64
}

func New(from string) *Pipeline {
	return &Pipeline{
		from:  from,
		skip:  -1,
		limit: -1,
	}
}

// Match 追加过滤条件，多个条件之间为 AND 关系。nil 条件会被忽略，
// 这样调用方可以直接传入可能为空的 scope 条件
func (p *Pipeline) Match(conds ...Cond) *Pipeline {
	for _, c := range conds {
		if c != nil {
			p.conds = append(p.conds, c)
		}
	}
	return p
}

// Join 内连接，对应端缺失时整行被丢弃
func (p *Pipeline) Join(table string, on string) *Pipeline {
	p.joins = append(p.joins, fmt.Sprintf("JOIN %s ON %s", table, on))
	return p
}

// LeftJoin 左连接，对应端缺失时联表字段为空
func (p *Pipeline) LeftJoin(table string, on string) *Pipeline {
	p.joins = append(p.joins, fmt.Sprintf("LEFT JOIN %s ON %s", table, on))
	return p
}

// Unnest 展开数组列，相当于聚合管道中的 unwind。
// 展开后的标量列以 alias 为名供后续阶段引用
func (p *Pipeline) Unnest(expr string, alias string) *Pipeline {
	p.joins = append(p.joins, fmt.Sprintf("CROSS JOIN LATERAL unnest(%s) AS u_%s(%s)", expr, alias, alias))
	return p
}

func (p *Pipeline) Group(exprs ...string) *Pipeline {
	p.groups = append(p.groups, exprs...)
	return p
}

func (p *Pipeline) Sort(exprs ...string) *Pipeline {
	p.sorts = append(p.sorts, exprs...)
	return p
}

func (p *Pipeline) Skip(n int64) *Pipeline {
	p.skip = n
	return p
}

func (p *Pipeline) Limit(n int64) *Pipeline {
	p.limit = n
	return p
}

func (p *Pipeline) Project(exprs ...string) *Pipeline {
	p.projection = append(p.projection, exprs...)
	return p
}

// SQL 按 SELECT … FROM … JOIN … WHERE … GROUP BY … ORDER BY … LIMIT … OFFSET …
// 的顺序编译整条管道
func (p *Pipeline) SQL() (string, []any) {
	args := &Args{}
	b := &strings.Builder{}

	b.WriteString("SELECT ")
	if len(p.projection) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(p.projection, ", "))
	}

	b.WriteString(" FROM ")
	b.WriteString(p.from)

	for _, join := range p.joins {
		b.WriteString(" ")
		b.WriteString(join)
	}

	p.writeWhere(b, args)

	if len(p.groups) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(p.groups, ", "))
	}

	if len(p.sorts) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(p.sorts, ", "))
	}

	if p.limit >= 0 {
		fmt.Fprintf(b, " LIMIT %d", p.limit)
	}
	if p.skip > 0 {
		fmt.Fprintf(b, " OFFSET %d", p.skip)
	}

	return b.String(), args.vals
}

// CountSQL 编译同一过滤条件下的总数查询，忽略分组、排序和分页阶段，
// 用于分页响应中的 total
func (p *Pipeline) CountSQL() (string, []any) {
	args := &Args{}
	b := &strings.Builder{}

	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(p.from)

	for _, join := range p.joins {
		b.WriteString(" ")
		b.WriteString(join)
	}

	p.writeWhere(b, args)

	return b.String(), args.vals
}

func (p *Pipeline) writeWhere(b *strings.Builder, args *Args) {
	if len(p.conds) == 0 {
		return
	}

	b.WriteString(" WHERE ")
	for i, c := range p.conds {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(c.compile(args))
	}
}
