// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package dcmp

// Two-byte values for dcmp0 tags 0x4b-0xfd, in tag order.
var dcmp0Table = [...][2]byte{
	{0x00, 0x00}, {0x4e, 0xba}, {0x00, 0x08}, {0x4e, 0x75}, {0x00, 0x0c}, {0x4e, 0xad}, {0x20, 0x53}, {0x2f, 0x0b},
	{0x61, 0x00}, {0x00, 0x10}, {0x70, 0x00}, {0x2f, 0x00}, {0x48, 0x6e}, {0x20, 0x50}, {0x20, 0x6e}, {0x2f, 0x2e},
	{0xff, 0xfc}, {0x48, 0xe7}, {0x3f, 0x3c}, {0x00, 0x04}, {0xff, 0xf8}, {0x2f, 0x0c}, {0x20, 0x06}, {0x4e, 0xed},
	{0x4e, 0x56}, {0x20, 0x68}, {0x4e, 0x5e}, {0x00, 0x01}, {0x58, 0x8f}, {0x4f, 0xef}, {0x00, 0x02}, {0x00, 0x18},
	{0x60, 0x00}, {0xff, 0xff}, {0x50, 0x8f}, {0x4e, 0x90}, {0x00, 0x06}, {0x26, 0x6e}, {0x00, 0x14}, {0xff, 0xf4},
	{0x4c, 0xee}, {0x00, 0x0a}, {0x00, 0x0e}, {0x41, 0xee}, {0x4c, 0xdf}, {0x48, 0xc0}, {0xff, 0xf0}, {0x2d, 0x40},
	{0x00, 0x12}, {0x30, 0x2e}, {0x70, 0x01}, {0x2f, 0x28}, {0x20, 0x54}, {0x67, 0x00}, {0x00, 0x20}, {0x00, 0x1c},
	{0x20, 0x5f}, {0x18, 0x00}, {0x26, 0x6f}, {0x48, 0x78}, {0x00, 0x16}, {0x41, 0xfa}, {0x30, 0x3c}, {0x28, 0x40},
	{0x72, 0x00}, {0x28, 0x6e}, {0x20, 0x0c}, {0x66, 0x00}, {0x20, 0x6b}, {0x2f, 0x07}, {0x55, 0x8f}, {0x00, 0x28},
	{0xff, 0xfe}, {0xff, 0xec}, {0x22, 0xd8}, {0x20, 0x0b}, {0x00, 0x0f}, {0x59, 0x8f}, {0x2f, 0x3c}, {0xff, 0x00},
	{0x01, 0x18}, {0x81, 0xe1}, {0x4a, 0x00}, {0x4e, 0xb0}, {0xff, 0xe8}, {0x48, 0xc7}, {0x00, 0x03}, {0x00, 0x22},
	{0x00, 0x07}, {0x00, 0x1a}, {0x67, 0x06}, {0x67, 0x08}, {0x4e, 0xf9}, {0x00, 0x24}, {0x20, 0x78}, {0x08, 0x00},
	{0x66, 0x04}, {0x00, 0x2a}, {0x4e, 0xd0}, {0x30, 0x28}, {0x26, 0x5f}, {0x67, 0x04}, {0x00, 0x30}, {0x43, 0xee},
	{0x3f, 0x00}, {0x20, 0x1f}, {0x00, 0x1e}, {0xff, 0xf6}, {0x20, 0x2e}, {0x42, 0xa7}, {0x20, 0x07}, {0xff, 0xfa},
	{0x60, 0x02}, {0x3d, 0x40}, {0x0c, 0x40}, {0x66, 0x06}, {0x00, 0x26}, {0x2d, 0x48}, {0x2f, 0x01}, {0x70, 0xff},
	{0x60, 0x04}, {0x18, 0x80}, {0x4a, 0x40}, {0x00, 0x40}, {0x00, 0x2c}, {0x2f, 0x08}, {0x00, 0x11}, {0xff, 0xe4},
	{0x21, 0x40}, {0x26, 0x40}, {0xff, 0xf2}, {0x42, 0x6e}, {0x4e, 0xb9}, {0x3d, 0x7c}, {0x00, 0x38}, {0x00, 0x0d},
	{0x60, 0x06}, {0x42, 0x2e}, {0x20, 0x3c}, {0x67, 0x0c}, {0x2d, 0x68}, {0x66, 0x08}, {0x4a, 0x2e}, {0x4a, 0xae},
	{0x00, 0x2e}, {0x48, 0x40}, {0x22, 0x5f}, {0x22, 0x00}, {0x67, 0x0a}, {0x30, 0x07}, {0x42, 0x67}, {0x00, 0x32},
	{0x20, 0x28}, {0x00, 0x09}, {0x48, 0x7a}, {0x02, 0x00}, {0x2f, 0x2b}, {0x00, 0x05}, {0x22, 0x6e}, {0x66, 0x02},
	{0xe5, 0x80}, {0x67, 0x0e}, {0x66, 0x0a}, {0x00, 0x50}, {0x3e, 0x00}, {0x66, 0x0c}, {0x2e, 0x00}, {0xff, 0xee},
	{0x20, 0x6d}, {0x20, 0x40}, {0xff, 0xe0}, {0x53, 0x40}, {0x60, 0x08}, {0x04, 0x80}, {0x00, 0x68}, {0x0b, 0x7c},
	{0x44, 0x00}, {0x41, 0xe8}, {0x48, 0x41},
}

// Two-byte values for dcmp1 tags 0xd5-0xfd, in tag order.
var dcmp1Table = [...][2]byte{
	{0x00, 0x00}, {0x00, 0x01}, {0x00, 0x02}, {0x00, 0x03}, {0x2e, 0x01}, {0x3e, 0x01}, {0x01, 0x01}, {0x1e, 0x01},
	{0xff, 0xff}, {0x0e, 0x01}, {0x31, 0x00}, {0x11, 0x12}, {0x01, 0x07}, {0x33, 0x32}, {0x12, 0x39}, {0xed, 0x10},
	{0x01, 0x27}, {0x23, 0x22}, {0x01, 0x37}, {0x07, 0x06}, {0x01, 0x17}, {0x01, 0x23}, {0x00, 0xff}, {0x00, 0x2f},
	{0x07, 0x0e}, {0xfd, 0x3c}, {0x01, 0x35}, {0x01, 0x15}, {0x01, 0x02}, {0x00, 0x07}, {0x00, 0x3e}, {0x05, 0xd5},
	{0x02, 0x01}, {0x06, 0x07}, {0x07, 0x08}, {0x30, 0x01}, {0x01, 0x33}, {0x00, 0x10}, {0x17, 0x16}, {0x37, 0x3e},
	{0x36, 0x37},
}

// Used by dcmp2 unless the stream carries its own table.
var dcmp2DefaultTable = [...][2]byte{
	{0x00, 0x00}, {0x00, 0x08}, {0x4e, 0xba}, {0x20, 0x6e}, {0x4e, 0x75}, {0x00, 0x0c}, {0x00, 0x04}, {0x70, 0x00},
	{0x00, 0x10}, {0x00, 0x02}, {0x48, 0x6e}, {0xff, 0xfc}, {0x60, 0x00}, {0x00, 0x01}, {0x48, 0xe7}, {0x2f, 0x2e},
	{0x4e, 0x56}, {0x00, 0x06}, {0x4e, 0x5e}, {0x2f, 0x00}, {0x61, 0x00}, {0xff, 0xf8}, {0x2f, 0x0b}, {0xff, 0xff},
	{0x00, 0x14}, {0x00, 0x0a}, {0x00, 0x18}, {0x20, 0x5f}, {0x00, 0x0e}, {0x20, 0x50}, {0x3f, 0x3c}, {0xff, 0xf4},
	{0x4c, 0xee}, {0x30, 0x2e}, {0x67, 0x00}, {0x4c, 0xdf}, {0x26, 0x6e}, {0x00, 0x12}, {0x00, 0x1c}, {0x42, 0x67},
	{0xff, 0xf0}, {0x30, 0x3c}, {0x2f, 0x0c}, {0x00, 0x03}, {0x4e, 0xd0}, {0x00, 0x20}, {0x70, 0x01}, {0x00, 0x16},
	{0x2d, 0x40}, {0x48, 0xc0}, {0x20, 0x78}, {0x72, 0x00}, {0x58, 0x8f}, {0x66, 0x00}, {0x4f, 0xef}, {0x42, 0xa7},
	{0x67, 0x06}, {0xff, 0xfa}, {0x55, 0x8f}, {0x28, 0x6e}, {0x3f, 0x00}, {0xff, 0xfe}, {0x2f, 0x3c}, {0x67, 0x04},
	{0x59, 0x8f}, {0x20, 0x6b}, {0x00, 0x24}, {0x20, 0x1f}, {0x41, 0xfa}, {0x81, 0xe1}, {0x66, 0x04}, {0x67, 0x08},
	{0x00, 0x1a}, {0x4e, 0xb9}, {0x50, 0x8f}, {0x20, 0x2e}, {0x00, 0x07}, {0x4e, 0xb0}, {0xff, 0xf2}, {0x3d, 0x40},
	{0x00, 0x1e}, {0x20, 0x68}, {0x66, 0x06}, {0xff, 0xf6}, {0x4e, 0xf9}, {0x08, 0x00}, {0x0c, 0x40}, {0x3d, 0x7c},
	{0xff, 0xec}, {0x00, 0x05}, {0x20, 0x3c}, {0xff, 0xe8}, {0xde, 0xfc}, {0x4a, 0x2e}, {0x00, 0x30}, {0x00, 0x28},
	{0x2f, 0x08}, {0x20, 0x0b}, {0x60, 0x02}, {0x42, 0x6e}, {0x2d, 0x48}, {0x20, 0x53}, {0x20, 0x40}, {0x18, 0x00},
	{0x60, 0x04}, {0x41, 0xee}, {0x2f, 0x28}, {0x2f, 0x01}, {0x67, 0x0a}, {0x48, 0x40}, {0x20, 0x07}, {0x66, 0x08},
	{0x01, 0x18}, {0x2f, 0x07}, {0x30, 0x28}, {0x3f, 0x2e}, {0x30, 0x2b}, {0x22, 0x6e}, {0x2f, 0x2b}, {0x00, 0x2c},
	{0x67, 0x0c}, {0x22, 0x5f}, {0x60, 0x06}, {0x00, 0xff}, {0x30, 0x07}, {0xff, 0xee}, {0x53, 0x40}, {0x00, 0x40},
	{0xff, 0xe4}, {0x4a, 0x40}, {0x66, 0x0a}, {0x00, 0x0f}, {0x4e, 0xad}, {0x70, 0xff}, {0x22, 0xd8}, {0x48, 0x6b},
	{0x00, 0x22}, {0x20, 0x4b}, {0x67, 0x0e}, {0x4a, 0xae}, {0x4e, 0x90}, {0xff, 0xe0}, {0xff, 0xc0}, {0x00, 0x2a},
	{0x27, 0x40}, {0x67, 0x02}, {0x51, 0xc8}, {0x02, 0xb6}, {0x48, 0x7a}, {0x22, 0x78}, {0xb0, 0x6e}, {0xff, 0xe6},
	{0x00, 0x09}, {0x32, 0x2e}, {0x3e, 0x00}, {0x48, 0x41}, {0xff, 0xea}, {0x43, 0xee}, {0x4e, 0x71}, {0x74, 0x00},
	{0x2f, 0x2c}, {0x20, 0x6c}, {0x00, 0x3c}, {0x00, 0x26}, {0x00, 0x50}, {0x18, 0x80}, {0x30, 0x1f}, {0x22, 0x00},
	{0x66, 0x0c}, {0xff, 0xda}, {0x00, 0x38}, {0x66, 0x02}, {0x30, 0x2c}, {0x20, 0x0c}, {0x2d, 0x6e}, {0x42, 0x40},
	{0xff, 0xe2}, {0xa9, 0xf0}, {0xff, 0x00}, {0x37, 0x7c}, {0xe5, 0x80}, {0xff, 0xdc}, {0x48, 0x68}, {0x59, 0x4f},
	{0x00, 0x34}, {0x3e, 0x1f}, {0x60, 0x08}, {0x2f, 0x06}, {0xff, 0xde}, {0x60, 0x0a}, {0x70, 0x02}, {0x00, 0x32},
	{0xff, 0xcc}, {0x00, 0x80}, {0x22, 0x51}, {0x10, 0x1f}, {0x31, 0x7c}, {0xa0, 0x29}, {0xff, 0xd8}, {0x52, 0x40},
	{0x01, 0x00}, {0x67, 0x10}, {0xa0, 0x23}, {0xff, 0xce}, {0xff, 0xd4}, {0x20, 0x06}, {0x48, 0x78}, {0x00, 0x2e},
	{0x50, 0x4f}, {0x43, 0xfa}, {0x67, 0x12}, {0x76, 0x00}, {0x41, 0xe8}, {0x4a, 0x6e}, {0x20, 0xd9}, {0x00, 0x5a},
	{0x7f, 0xff}, {0x51, 0xca}, {0x00, 0x5c}, {0x2e, 0x00}, {0x02, 0x40}, {0x48, 0xc7}, {0x67, 0x14}, {0x0c, 0x80},
	{0x2e, 0x9f}, {0xff, 0xd6}, {0x80, 0x00}, {0x10, 0x00}, {0x48, 0x42}, {0x4a, 0x6b}, {0xff, 0xd2}, {0x00, 0x48},
	{0x4a, 0x47}, {0x4e, 0xd1}, {0x20, 0x6f}, {0x00, 0x41}, {0x60, 0x0c}, {0x2a, 0x78}, {0x42, 0x2e}, {0x32, 0x00},
	{0x65, 0x74}, {0x67, 0x16}, {0x00, 0x44}, {0x48, 0x6d}, {0x20, 0x08}, {0x48, 0x6c}, {0x0b, 0x7c}, {0x26, 0x40},
	{0x04, 0x00}, {0x00, 0x68}, {0x20, 0x6d}, {0x00, 0x0d}, {0x2a, 0x40}, {0x00, 0x0b}, {0x00, 0x3e}, {0x02, 0x20},
}
