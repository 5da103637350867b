package middleware

import "github.com/danielgtaylor/huma/v2"

// Container собирает middlewares для очередной группы операций
type Container struct {
	mws huma.Middlewares
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(mw func(huma.Context, func(huma.Context))) {
	c.mws = append(c.mws, mw)
}

// GetAllAndClear отдает накопленные middlewares и очищает контейнер
func (c *Container) GetAllAndClear() huma.Middlewares {
	out := c.mws
	c.mws = nil
	if out == nil {
		out = huma.Middlewares{}
	}
	return out
}
