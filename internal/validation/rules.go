package validation

// 各接口的规则集，声明式且无状态
// 同一字段可以有多条规则，按顺序评估，只保留第一条失败信息
// 长度上限与表结构一致：邮箱、菜品名 255 字符，价格 DECIMAL(10,2)，密码受 bcrypt 72 字节限制

// Signup 注册
var Signup = RuleSet{
	Name: "signup",
	Rules: []Rule{
		{
			Field:    "name",
			Kind:     String,
			Required: true,
			Before:   []Sanitizer{Trim},
			Tag:      "min=2,max=50",
			Message:  "Name must be between 2 and 50 characters",
		},
		{
			Field:    "email",
			Kind:     String,
			Required: true,
			Before:   []Sanitizer{Trim},
			Tag:      "email,max=255",
			After:    []Sanitizer{NormalizeEmail},
			Message:  "Please provide a valid email",
		},
		{
			Field:    "password",
			Kind:     String,
			Required: true,
			Tag:      "min=8",
			Message:  "Password must be at least 8 characters",
		},
		{
			Field:    "password",
			Kind:     String,
			Required: true,
			Tag:      "maxbytes=72",
			Message:  "Password must be at most 72 bytes",
		},
	},
}

// Login 登录，密码只要求非空
var Login = RuleSet{
	Name: "login",
	Rules: []Rule{
		{
			Field:    "email",
			Kind:     String,
			Required: true,
			Before:   []Sanitizer{Trim},
			Tag:      "email,max=255",
			After:    []Sanitizer{NormalizeEmail},
			Message:  "Please provide a valid email",
		},
		{
			Field:    "password",
			Kind:     String,
			Required: true,
			Message:  "Password is required",
		},
	},
}

// AddToCart 加入购物车
var AddToCart = RuleSet{
	Name: "add-to-cart",
	Rules: []Rule{
		{
			Field:    "menuId",
			Kind:     Int,
			Required: true,
			Tag:      "min=1",
			Message:  "Valid menu ID is required",
		},
		{
			Field:    "name",
			Kind:     String,
			Required: true,
			Before:   []Sanitizer{Trim},
			Message:  "Item name is required",
		},
		{
			Field:    "name",
			Kind:     String,
			Required: true,
			Before:   []Sanitizer{Trim},
			Tag:      "max=255",
			Message:  "Item name must be at most 255 characters",
		},
		{
			Field:    "price",
			Kind:     Float,
			Required: true,
			Tag:      "gte=0,lte=99999999.99",
			Message:  "Valid price is required",
		},
		{
			Field:    "quantity",
			Kind:     Int,
			Required: true,
			Tag:      "min=1,max=50",
			Message:  "Quantity must be between 1 and 50",
		},
		{
			Field:    "restaurantId",
			Kind:     Int,
			Required: true,
			Tag:      "min=1",
			Message:  "Valid restaurant ID is required",
		},
	},
}

// RemoveCartItem 移除购物车条目，menuId 来自路径参数
var RemoveCartItem = RuleSet{
	Name: "remove-cart-item",
	Rules: []Rule{
		{
			Field:    "menuId",
			Source:   Path,
			Kind:     Int,
			Required: true,
			Tag:      "min=1",
			Message:  "Valid menu ID is required",
		},
	},
}
