package rewards

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Metric string

const (
	MetricStreak        Metric = "streak"
	MetricOrders        Metric = "orders"
	MetricCoins         Metric = "coins"
	MetricWeekendOrders Metric = "weekend_orders"
)

// Progress is a player's counters.
type Progress struct {
	Coins         int `json:"coins"`
	Streak        int `json:"streak"`
	Orders        int `json:"orders"`
	WeekendOrders int `json:"weekend_orders"`
}

func (p Progress) value(m Metric) int {
	switch m {
	case MetricStreak:
		return p.Streak
	case MetricOrders:
		return p.Orders
	case MetricCoins:
		return p.Coins
	case MetricWeekendOrders:
		return p.WeekendOrders
	}
	return 0
}

// DemoProgress is the profile every session plays with.
var DemoProgress = Progress{Coins: 250, Streak: 2, Orders: 7, WeekendOrders: 1}

type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Metric      Metric `json:"metric"`
	Target      int    `json:"target"`
	Reward      string `json:"reward"`
}

var tasks = []Task{
	{ID: 1, Title: "Order Streak Master", Description: "Complete 3 orders in a row", Metric: MetricStreak, Target: 3, Reward: "₹50 OFF"},
	{ID: 2, Title: "Spin Wheel Ready", Description: "Place 5 orders to unlock spin wheel", Metric: MetricOrders, Target: 5, Reward: "Mystery Prize"},
	{ID: 3, Title: "Coin Collector", Description: "Collect 500 food coins", Metric: MetricCoins, Target: 500, Reward: "₹100 OFF"},
	{ID: 4, Title: "Weekend Warrior", Description: "Order 2 times this weekend", Metric: MetricWeekendOrders, Target: 2, Reward: "Free Delivery"},
}

type TaskStatus struct {
	Task
	Progress  int  `json:"progress"`
	Completed bool `json:"completed"`
}

type Board struct {
	Progress Progress     `json:"progress"`
	Tasks    []TaskStatus `json:"tasks"`
}

// Evaluate scores every task against p.
func Evaluate(p Progress) Board {
	board := Board{Progress: p, Tasks: make([]TaskStatus, 0, len(tasks))}
	for _, t := range tasks {
		v := p.value(t.Metric)
		board.Tasks = append(board.Tasks, TaskStatus{
			Task:      t,
			Progress:  v,
			Completed: v >= t.Target,
		})
	}
	return board
}

func Handle(c *gin.Context) {
	c.JSON(http.StatusOK, Evaluate(DemoProgress))
}
